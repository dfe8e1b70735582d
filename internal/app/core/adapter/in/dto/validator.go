package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/currency"

	"github.com/JoeShih716/account-ledger/internal/app/core/domain"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator 回傳共用的 validator，欄位名稱使用 json tag
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		// notblank: 去掉空白後不可為空字串
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate = v
	})
	return validate
}

// ValidateAccount 建立帳戶的輸入驗證
func ValidateAccount(d AccountDTO) error {
	if err := checkRequired(d); err != nil {
		return err
	}
	if err := validateCurrency(d.Currency); err != nil {
		return err
	}
	if d.Balance.IsNegative() {
		return fmt.Errorf("%w: cannot have negative value", domain.ErrInvalidParameter)
	}
	return nil
}

// ValidateTransfer 轉帳的輸入驗證
func ValidateTransfer(d TransferDTO) error {
	if err := checkRequired(d); err != nil {
		return err
	}
	if err := validateCurrency(d.Currency); err != nil {
		return err
	}
	if !d.TransferAmount.IsPositive() {
		return fmt.Errorf("%w: transfer amount must be positive", domain.ErrInvalidParameter)
	}
	if *d.SourceAccountID == *d.DestinationAccountID {
		return fmt.Errorf("%w: source and destination accounts must not have same ID", domain.ErrInvalidParameter)
	}
	return nil
}

// checkRequired 跑 struct tag 驗證，只回報第一個缺少的欄位
func checkRequired(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fmt.Errorf("%w: %s is a required parameter", domain.ErrRequiredParameter, fieldErrs[0].Field())
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidParameter, err)
}

// validateCurrency 必須是大寫的 ISO-4217 代碼
func validateCurrency(code string) error {
	if code != strings.ToUpper(code) {
		return fmt.Errorf("%w: %s is not a valid currency code", domain.ErrInvalidParameter, code)
	}
	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("%w: %s is not a valid currency code", domain.ErrInvalidParameter, code)
	}
	return nil
}
