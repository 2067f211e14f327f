package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/hireprivate/staffboard/app/models"
	"github.com/hireprivate/staffboard/internal/pkg/database"
	"github.com/hireprivate/staffboard/internal/pkg/metrics/counter"
	"github.com/hireprivate/staffboard/internal/pkg/subscription"
)

// Default listing lifetime before it drops out of search.
const defaultJobLifetime = 60 * 24 * time.Hour

// JobController exposes job listing creation behind the posting gate.
type JobController struct {
	svc *subscription.Service
}

// NewJobController creates the controller with an injected service.
func NewJobController(svc *subscription.Service) *JobController {
	return &JobController{svc: svc}
}

type createJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// HandleCreateJob accepts a new listing. CanPostJob is the gate; the credit
// consumption in HandleJobPosting runs after the row is written and acts as
// the defensive second check against concurrent exhaustion.
func (ctl *JobController) HandleCreateJob(c *fiber.Ctx) error {
	profile, err := resolveEmployerProfile(c)
	if err != nil {
		return err
	}

	var req createJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Title is required"})
	}

	if !ctl.svc.CanPostJob(c.Context(), profile.ID) {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":   "no_posting_capacity",
			"message": "Cannot post — insufficient credits / no active plan",
		})
	}

	db := database.GetDB()
	expires := time.Now().Add(defaultJobLifetime)
	job := &models.Job{
		EmployerProfileID: profile.ID,
		Title:             req.Title,
		Description:       req.Description,
		Location:          req.Location,
		Status:            models.JobStatusActive,
		ExpiresAt:         &expires,
	}
	if err := db.Create(job).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create job"})
	}

	if err := ctl.svc.HandleJobPosting(c.Context(), profile.ID); err != nil {
		// Roll the listing back best-effort; the race loser must not keep a
		// free post.
		if delErr := db.Delete(job).Error; delErr != nil {
			log.Errorf("failed to roll back job %s after posting rejection: %v", job.UUID, delErr)
		}
		if errors.Is(err, subscription.ErrNoPostingCapacity) {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error":   "no_posting_capacity",
				"message": "Cannot post — insufficient credits / no active plan",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to record job posting"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"uuid":       job.UUID,
		"title":      job.Title,
		"status":     job.Status,
		"expires_at": formatTimePtr(job.ExpiresAt),
	})
}

// HandleGetJob serves a single public listing by its UUID. Views are buffered
// in redis and flushed to the row in batches.
func (ctl *JobController) HandleGetJob(c *fiber.Ctx) error {
	jobUUID := c.Params("uuid")

	var job models.Job
	if err := database.GetDB().Where("uuid = ?", jobUUID).First(&job).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Job not found"})
	}
	if job.Status != models.JobStatusActive && job.Status != models.JobStatusFilled {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Job not found"})
	}

	if err := counter.AddJobView(job.ID); err != nil {
		log.Warnf("failed to count view for job %s: %v", job.UUID, err)
	}

	return c.JSON(fiber.Map{
		"uuid":        job.UUID,
		"title":       job.Title,
		"description": job.Description,
		"location":    job.Location,
		"status":      job.Status,
		"view_count":  job.ViewCount,
		"expires_at":  formatTimePtr(job.ExpiresAt),
		"created_at":  job.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// HandleGetJobUsage reports how many listings count toward the current
// billing period.
func (ctl *JobController) HandleGetJobUsage(c *fiber.Ctx) error {
	profile, err := resolveEmployerProfile(c)
	if err != nil {
		return err
	}

	info, err := ctl.svc.GetEmployerSubscription(c.Context(), profile.ID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No subscription record"})
	}

	count, err := ctl.svc.GetActiveJobsCount(c.Context(), profile.ID, info.SubscriptionStartDate)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count jobs"})
	}

	return c.JSON(fiber.Map{
		"active_jobs":    count,
		"job_credits":    info.JobCredits,
		"job_post_limit": info.JobPostLimit,
		"jobs_posted":    info.JobsPostedCount,
		"period_start":   info.SubscriptionStartDate.UTC().Format(time.RFC3339),
	})
}
