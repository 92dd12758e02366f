package referrals

import (
	"context"
	"io"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// MaxResumeSize caps uploaded resumes at 5MB
const MaxResumeSize = 5 * 1024 * 1024

// ResumeContentType is the only accepted resume format
const ResumeContentType = "application/pdf"

// ResumeStore is the object-storage capability the controller needs:
// store a blob, get back a durable retrieval reference.
type ResumeStore interface {
	Store(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// CandidatesController serves the ownership-scoped candidate CRUD. Every
// handler resolves the caller from the request context the auth
// middleware populated; the repository applies the ownership filter.
type CandidatesController struct {
	Logger  Logger
	Repo    RepositoryManager
	Resumes ResumeStore
}

type CandidatesControllerOption func(*CandidatesController) *CandidatesController

func NewCandidatesController(opts ...CandidatesControllerOption) *CandidatesController {
	c := &CandidatesController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in candidates controller...")
	}

	return c
}

func WithCandidatesLogger(logger Logger) CandidatesControllerOption {
	return func(c *CandidatesController) *CandidatesController {
		c.Logger = logger
		return c
	}
}

func WithCandidatesRepo(repo RepositoryManager) CandidatesControllerOption {
	return func(c *CandidatesController) *CandidatesController {
		c.Repo = repo
		return c
	}
}

func WithCandidatesResumeStore(store ResumeStore) CandidatesControllerOption {
	return func(c *CandidatesController) *CandidatesController {
		c.Resumes = store
		return c
	}
}

// RegisterCandidateRoutes mounts the candidate endpoints on the given
// router. The router is expected to already carry the auth middleware.
func RegisterCandidateRoutes(app fiber.Router, controller *CandidatesController) {
	app.Get("/candidates", controller.List)
	app.Post("/candidates", controller.Create)
	app.Patch("/candidates/:id/status", controller.UpdateStatus)
	app.Delete("/candidates/:id", controller.Delete)
}

func (a *CandidatesController) caller(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, ok := UserIDFromContext(ctx.UserContext())
	if !ok {
		return uuid.Nil, ErrTokenMalformed
	}
	return id, nil
}

// List returns the caller's candidates, newest first
func (a *CandidatesController) List(ctx *fiber.Ctx) error {
	callerID, err := a.caller(ctx)
	if err != nil {
		return RenderError(ctx, a.Logger, err)
	}

	records, err := a.Repo.Candidates().ListByReferrer(ctx.Context(), callerID)
	if err != nil {
		return RenderError(ctx, a.Logger, errors.Wrap(err, errors.CategoryInternal, "failed to list candidates"))
	}

	return ctx.Status(fiber.StatusOK).JSON(records)
}

// CreateCandidatePayload is the referral submission body. The resume is
// an optional multipart file handled separately.
type CreateCandidatePayload struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Phone    string `form:"phone_number" json:"phone_number"`
	JobTitle string `form:"job_title" json:"job_title"`
}

// Validate will run validation rules
func (r CreateCandidatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Phone, validation.Required, validation.By(ValidPhoneNumber)),
		validation.Field(&r.JobTitle, validation.Required, validation.Length(1, 200)),
	)
}

// Create accepts a referral submission, optionally storing an attached
// resume, and persists the candidate owned by the caller with status
// Pending.
func (a *CandidatesController) Create(ctx *fiber.Ctx) error {
	callerID, err := a.caller(ctx)
	if err != nil {
		return RenderError(ctx, a.Logger, err)
	}

	payload := new(CreateCandidatePayload)
	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("create candidate parse payload", "error", err)
		return RenderError(ctx, a.Logger, NewValidationError(map[string]string{
			"payload": "failed to parse request body",
		}))
	}

	if err := payload.Validate(); err != nil {
		return RenderError(ctx, a.Logger, NewValidationError(FormatValidationErrorToMap(err)))
	}

	var resumeURL *string
	if file, err := ctx.FormFile("resume"); err == nil && file != nil {
		url, err := a.storeResume(ctx, file.Filename, file.Header.Get(fiber.HeaderContentType), file.Size)
		if err != nil {
			return RenderError(ctx, a.Logger, err)
		}
		resumeURL = &url
	}

	record := &Candidate{
		Name:       payload.Name,
		Email:      payload.Email,
		Phone:      payload.Phone,
		JobTitle:   payload.JobTitle,
		ResumeURL:  resumeURL,
		ReferrerID: callerID,
	}

	record, err = a.Repo.Candidates().Create(ctx.Context(), record)
	if err != nil {
		return RenderError(ctx, a.Logger, errors.Wrap(err, errors.CategoryInternal, "failed to create candidate"))
	}

	return ctx.Status(fiber.StatusCreated).JSON(record)
}

func (a *CandidatesController) storeResume(ctx *fiber.Ctx, filename, contentType string, size int64) (string, error) {
	if a.Resumes == nil {
		return "", errors.New("resume storage is not configured", errors.CategoryInternal)
	}

	if contentType != ResumeContentType {
		return "", NewValidationError(map[string]string{
			"resume": "only PDF files are allowed",
		})
	}

	if size > MaxResumeSize {
		return "", NewValidationError(map[string]string{
			"resume": "file exceeds the 5MB limit",
		})
	}

	file, err := ctx.FormFile("resume")
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to read uploaded resume")
	}

	src, err := file.Open()
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to open uploaded resume")
	}
	defer src.Close()

	url, err := a.Resumes.Store(ctx.Context(), filename, contentType, src)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to store resume")
	}

	return url, nil
}

// UpdateStatusPayload moves a candidate through the review workflow
type UpdateStatusPayload struct {
	Status string `form:"status" json:"status"`
}

// Validate will run validation rules
func (r UpdateStatusPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Status,
			validation.Required,
			validation.In(StatusPending, StatusReviewed, StatusHired),
		),
	)
}

// UpdateStatus moves an owned candidate to a new status. A candidate
// that does not exist and one owned by someone else produce the same 404.
func (a *CandidatesController) UpdateStatus(ctx *fiber.Ctx) error {
	callerID, err := a.caller(ctx)
	if err != nil {
		return RenderError(ctx, a.Logger, err)
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return RenderError(ctx, a.Logger, ErrCandidateNotFound)
	}

	payload := new(UpdateStatusPayload)
	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("update status parse payload", "error", err)
		return RenderError(ctx, a.Logger, NewValidationError(map[string]string{
			"payload": "failed to parse request body",
		}))
	}

	if err := payload.Validate(); err != nil {
		return RenderError(ctx, a.Logger, NewValidationError(FormatValidationErrorToMap(err)))
	}

	record, err := a.Repo.Candidates().UpdateStatus(ctx.Context(), id, callerID, payload.Status)
	if err != nil {
		if errors.Is(err, ErrCandidateNotFound) {
			return RenderError(ctx, a.Logger, err)
		}
		// never echo the raw persistence error back to the client
		return RenderError(ctx, a.Logger, errors.Wrap(err, errors.CategoryInternal, "failed to update candidate status"))
	}

	return ctx.Status(fiber.StatusOK).JSON(record)
}

// Delete removes an owned candidate; repeating the call yields the same
// 404 a never-existing id would.
func (a *CandidatesController) Delete(ctx *fiber.Ctx) error {
	callerID, err := a.caller(ctx)
	if err != nil {
		return RenderError(ctx, a.Logger, err)
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return RenderError(ctx, a.Logger, ErrCandidateNotFound)
	}

	if err := a.Repo.Candidates().DeleteOwned(ctx.Context(), id, callerID); err != nil {
		if errors.Is(err, ErrCandidateNotFound) {
			return RenderError(ctx, a.Logger, err)
		}
		return RenderError(ctx, a.Logger, errors.Wrap(err, errors.CategoryInternal, "failed to delete candidate"))
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Candidate deleted successfully",
	})
}
