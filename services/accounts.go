// services/accounts.go
package services

import (
	"strconv"
	"strings"

	"reputation-badge-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AccountService reads the local mirror of identity-service accounts.
type AccountService struct {
	DB *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{DB: db}
}

// SearchAccounts searches the mirrored account table by username or email.
func (s *AccountService) SearchAccounts(c *fiber.Ctx) error {
	query := c.Query("q", "")
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	db := s.DB.Model(&models.AccountMirror{}).Limit(limit)
	if query != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
		db = db.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}

	var accounts []models.AccountMirror
	if err := db.Find(&accounts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "search failed", "cause": err.Error()})
	}

	// Expose only the account key and display fields.
	type AccountSummary struct {
		Account   string  `json:"account"`
		Username  string  `json:"username"`
		AvatarURL *string `json:"avatar_url,omitempty"`
	}
	res := make([]AccountSummary, len(accounts))
	for i, a := range accounts {
		res[i] = AccountSummary{Account: a.Account, Username: a.Username, AvatarURL: a.AvatarURL}
	}
	return c.JSON(res)
}
