package utils_test

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/warbler/web-go/utils"
)

type sampleForm struct {
	Username string `form:"username" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
	Text     string `form:"text" binding:"max=5"`
}

func TestFormErrors(t *testing.T) {
	form := sampleForm{Email: "nope", Password: "123", Text: "too long"}
	err := binding.Validator.ValidateStruct(&form)

	errs := utils.FormErrors(err, &form)

	assert.Equal(t, []string{"This field is required."}, errs["username"])
	assert.Equal(t, []string{"Invalid email address."}, errs["email"])
	assert.Equal(t, []string{"Field must be at least 6 characters long."}, errs["password"])
	assert.Equal(t, []string{"Field cannot be longer than 5 characters."}, errs["text"])
}

func TestFormErrorsNonValidation(t *testing.T) {
	errs := utils.FormErrors(errors.New("bad body"), &sampleForm{})
	assert.Equal(t, []string{"bad body"}, errs["_form"])

	assert.Nil(t, utils.FormErrors(nil, &sampleForm{}))
}
