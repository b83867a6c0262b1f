package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/shoplist/app/services"
	"github.com/shashiranjanraj/shoplist/pkg/bind"
	"github.com/shashiranjanraj/shoplist/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues a JWT.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	token, err := c.service.Login(body.Email, body.Password)
	if err != nil {
		response.Unauthorized(w)
		return
	}
	response.Success(w, map[string]string{"token": token})
}
