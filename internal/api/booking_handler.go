package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gym-service/internal/service"
)

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

func (h *BookingHandler) ListClasses(c *fiber.Ctx) error {
	martialArt := c.Query("martial_art")

	classes, err := h.bookingService.ListClasses(c.Context(), martialArt)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error listing classes", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch classes"})
	}

	return c.Status(fiber.StatusOK).JSON(classes)
}

func (h *BookingHandler) GetEligibility(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class ID format"})
	}

	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	decision, err := h.bookingService.Eligibility(c.Context(), userID, classID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClassNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		default:
			slog.ErrorContext(c.UserContext(), "Error evaluating eligibility", slog.String("error", err.Error()))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not evaluate eligibility"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(decision)
}

func (h *BookingHandler) Book(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class ID format"})
	}

	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	booking, err := h.bookingService.Book(c.Context(), userID, classID)
	if err != nil {
		var notEligible *service.NotEligibleError

		switch {
		case errors.As(err, &notEligible):
			bookingAttemptsTotal.WithLabelValues("denied").Inc()
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": notEligible.Reason})
		case errors.Is(err, service.ErrAlreadyBooked):
			bookingAttemptsTotal.WithLabelValues("duplicate").Inc()
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrClassNotFound), errors.Is(err, service.ErrUserNotFound):
			bookingAttemptsTotal.WithLabelValues("error").Inc()
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrTransient):
			bookingAttemptsTotal.WithLabelValues("error").Inc()
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Temporary problem saving your booking, please try again"})
		default:
			bookingAttemptsTotal.WithLabelValues("error").Inc()
			slog.ErrorContext(c.UserContext(), "Error booking class", slog.String("error", err.Error()))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not book class"})
		}
	}

	bookingAttemptsTotal.WithLabelValues("confirmed").Inc()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Class booked successfully",
		"booking": booking,
	})
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID format"})
	}

	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	err = h.bookingService.Cancel(c.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrTransient):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Temporary problem cancelling your booking, please try again"})
		default:
			slog.ErrorContext(c.UserContext(), "Error cancelling booking", slog.String("error", err.Error()))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not cancel booking"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Booking cancelled"})
}

func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	bookings, err := h.bookingService.ListBookings(c.Context(), userID)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error listing bookings", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch bookings"})
	}

	return c.Status(fiber.StatusOK).JSON(bookings)
}
