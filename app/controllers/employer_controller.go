package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/hireprivate/staffboard/app/models"
	"github.com/hireprivate/staffboard/internal/pkg/database"
	"github.com/hireprivate/staffboard/internal/pkg/subscription"
	"github.com/hireprivate/staffboard/internal/pkg/usercontext"
)

// EmployerController handles employer/agency profile onboarding.
type EmployerController struct {
	svc *subscription.Service
}

// NewEmployerController creates the controller with an injected service.
func NewEmployerController(svc *subscription.Service) *EmployerController {
	return &EmployerController{svc: svc}
}

type createEmployerRequest struct {
	CompanyName  string `json:"company_name"`
	ContactEmail string `json:"contact_email"`
	Location     string `json:"location"`
	About        string `json:"about"`
}

// HandleCreateEmployer creates the employer profile with its subscription row
// and initializes the role-dependent trial in one transaction.
func (ctl *EmployerController) HandleCreateEmployer(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	var req createEmployerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if req.CompanyName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Company name is required"})
	}

	db := database.GetDB()
	if _, err := models.GetEmployerProfileByUserID(db, userCtx.UserID); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Employer profile already exists"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to check employer profile"})
	}

	profile := &models.EmployerProfile{
		UserID:       userCtx.UserID,
		CompanyName:  req.CompanyName,
		ContactEmail: req.ContactEmail,
		Location:     req.Location,
		About:        req.About,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		repo := subscription.NewRepository(tx)
		if _, err := repo.CreateForEmployer(profile.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Errorf("employer profile creation failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create employer profile"})
	}

	if err := ctl.svc.InitializeTrialSubscription(c.Context(), profile.ID, userCtx.Role); err != nil {
		log.Errorf("trial initialization failed for employer %d: %v", profile.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to initialize trial subscription"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":           profile.ID,
		"company_name": profile.CompanyName,
		"subscription": models.SubscriptionTypeTrial,
	})
}

// HandleGetEmployer returns the authenticated user's employer profile.
func (ctl *EmployerController) HandleGetEmployer(c *fiber.Ctx) error {
	profile, err := resolveEmployerProfile(c)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}
