package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"huddle/internal/database"
	"huddle/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateAccount handles the creation of a new account
func CreateAccount(c *gin.Context) {
	var request models.CreateAccountRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, fmt.Sprintf("Invalid input: %s", err.Error()), err)
		return
	}

	db := database.GetDB()

	account := models.Account{
		Username:    request.Username,
		Email:       request.Email,
		DisplayName: request.DisplayName,
	}
	if err := db.Create(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already taken"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to create account", err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

// GetAccount returns a single account by username
func GetAccount(c *gin.Context) {
	username := c.Param("username")

	db := database.GetDB()

	var account models.Account
	if err := db.Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch account", err)
		return
	}

	c.JSON(http.StatusOK, account)
}
