package http

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/JoeShih716/account-ledger/internal/app/core/adapter/in/dto"
	"github.com/JoeShih716/account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/account-ledger/internal/app/core/usecase"
)

// AccountHandler 提供 /api/v1/account 的 REST 介面
type AccountHandler struct {
	core   *usecase.CoreUseCase
	logger *zap.Logger
}

func NewAccountHandler(core *usecase.CoreUseCase, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		core:   core,
		logger: logger.With(zap.String("component", "http_handler")),
	}
}

// Register 掛上所有路由
func (h *AccountHandler) Register(router fiber.Router) {
	account := router.Group("/api/v1/account")
	account.Get("/", h.ListAccounts)
	account.Get("/:id", h.GetAccount)
	account.Post("/", h.CreateAccount)
	account.Put("/", h.Transfer)
}

func (h *AccountHandler) ListAccounts(c *fiber.Ctx) error {
	accounts, err := h.core.ListAccounts(c.UserContext())
	if err != nil {
		return h.internalError(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.FromAccounts(accounts))
}

func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid account id")
	}

	account, err := h.core.GetAccount(c.UserContext(), int64(id))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return errorJSON(c, http.StatusNotFound, err.Error())
		}
		return h.internalError(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.FromAccount(account))
}

func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	// 1. 解析 JSON
	var req dto.AccountDTO
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	// 2. 輸入驗證
	if err := dto.ValidateAccount(req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	// 3. 建立帳戶
	account, err := h.core.CreateAccount(c.UserContext(), req.AccountHolderName, req.Currency, *req.Balance)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidParameter) {
			return errorJSON(c, http.StatusBadRequest, err.Error())
		}
		return h.internalError(c, err)
	}

	h.logger.Info("account created", zap.Int64("account_id", account.ID), zap.String("currency", account.Currency))
	return c.Status(http.StatusOK).JSON(dto.FromAccount(account))
}

func (h *AccountHandler) Transfer(c *fiber.Ctx) error {
	var req dto.TransferDTO
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if err := dto.ValidateTransfer(req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	err := h.core.Transfer(c.UserContext(), req.ToTransferRequest())
	switch {
	case err == nil:
		return c.SendStatus(http.StatusOK)
	case errors.Is(err, domain.ErrRequiredParameter),
		errors.Is(err, domain.ErrInvalidParameter),
		errors.Is(err, domain.ErrAccountNotFound):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInsufficientFunds):
		return errorJSON(c, http.StatusNotAcceptable, err.Error())
	case errors.Is(err, domain.ErrLockTimeout):
		return errorJSON(c, http.StatusServiceUnavailable, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *AccountHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return errorJSON(c, http.StatusInternalServerError, err.Error())
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
