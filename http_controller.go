package referrals

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// AuthController serves the registration and login endpoints
type AuthController struct {
	Debug  bool
	Logger Logger
	Repo   RepositoryManager
	Auther *Auther
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

func WithAuthLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithAuthRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithAuthAuther(auther *Auther) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithAuthDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// RegisterAuthRoutes mounts the auth endpoints on the given router
func RegisterAuthRoutes(app fiber.Router, controller *AuthController) {
	app.Post("/auth/register", controller.RegistrationCreate)
	app.Post("/auth/login", controller.LoginPost)
}

// AuthResponse carries the minted token plus the public user projection
type AuthResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Email
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return RenderError(ctx, a.Logger, NewValidationError(map[string]string{
			"payload": "failed to parse request body",
		}))
	}

	if err := payload.Validate(); err != nil {
		return RenderError(ctx, a.Logger, NewValidationError(FormatValidationErrorToMap(err)))
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	token, err := a.Auther.Login(ctx.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) || errors.Is(err, ErrIdentityNotFound) {
			// unknown email and wrong password share this one response
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: ErrorBody{
					Code:    TextCodeInvalidCreds,
					Message: "Invalid credentials",
				},
			})
		}
		return RenderError(ctx, a.Logger, err)
	}

	user, err := a.Repo.Users().GetByEmail(ctx.Context(), payload.GetIdentifier())
	if err != nil {
		return RenderError(ctx, a.Logger, errors.Wrap(err, errors.CategoryInternal, "failed to load user after login"))
	}

	return ctx.Status(fiber.StatusOK).JSON(AuthResponse{
		Token: token,
		User:  user.Public(),
	})
}

// RegistrationCreatePayload is the registration body
type RegistrationCreatePayload struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

func (a *AuthController) RegistrationCreate(ctx *fiber.Ctx) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("register user parse payload", "error", err)
		return RenderError(ctx, a.Logger, NewValidationError(map[string]string{
			"payload": "failed to parse request body",
		}))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload", "error", err)
		return RenderError(ctx, a.Logger, NewValidationError(FormatValidationErrorToMap(err)))
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	req := RegisterUserMessage{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	}

	registerUser := NewRegisterUserHandler(a.Repo)
	user, err := registerUser.Execute(ctx.Context(), req)
	if err != nil {
		a.Logger.Error("register user execute", "error", err)
		return RenderError(ctx, a.Logger, err)
	}

	token, err := a.Auther.IssueToken(NewIdentityFromUser(user))
	if err != nil {
		return RenderError(ctx, a.Logger, errors.Wrap(err, errors.CategoryInternal, "failed to issue token"))
	}

	return ctx.Status(fiber.StatusCreated).JSON(AuthResponse{
		Token: token,
		User:  user.Public(),
	})
}
