package api

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gym-service/internal/service"
)

type MemberHandler struct {
	memberService service.MemberService
	validate      *validator.Validate
}

func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		validate:      validator.New(),
	}
}

func (h *MemberHandler) GetMe(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	profile, err := h.memberService.GetProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		slog.ErrorContext(c.UserContext(), "Error fetching profile", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch profile"})
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

type ChoosePlanRequest struct {
	PlanID              string `json:"plan_id" validate:"required,uuid4"`
	MartialArt          string `json:"martial_art,omitempty" validate:"max=50"`
	MartialArtSecondary string `json:"martial_art_secondary,omitempty" validate:"max=50"`
}

func (h *MemberHandler) ChoosePlan(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	var request ChoosePlanRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	planID, err := uuid.Parse(request.PlanID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid plan ID format"})
	}

	err = h.memberService.ChoosePlan(c.Context(), userID, planID, request.MartialArt, request.MartialArtSecondary)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrSecondArtRequired):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		default:
			slog.ErrorContext(c.UserContext(), "Error updating plan", slog.String("error", err.Error()))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update membership plan"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Membership plan updated successfully"})
}

func (h *MemberHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.memberService.ListPlans(c.Context())
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error listing plans", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch membership plans"})
	}

	return c.Status(fiber.StatusOK).JSON(plans)
}
