package handlers

import (
	"reflect"
	"sync"

	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerValidatorsOnce sync.Once

// RegisterValidators adds the ledger binding tags to gin's validator:
//
//	money       positive amount with at most two decimals
//	couponcode  PREFIX-XXXXXXXX
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("money", validateMoney)
		_ = v.RegisterValidation("couponcode", validateCouponCode)
	})
}

// decimalValue lets validator treat decimals as their string form.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func validateMoney(fl validator.FieldLevel) bool {
	amount, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return domain.ValidateAmount(amount) == nil
}

func validateCouponCode(fl validator.FieldLevel) bool {
	return domain.CouponCodePattern.MatchString(fl.Field().String())
}
