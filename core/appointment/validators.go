package appointment

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/pfetrack/core"
)

var (
	// custom validation tags & texts
	timeSlotTag  = "timeslot"
	timeSlotText = "must be one of the bookable consultation slots"
)

// InitValidators registers appointment-specific validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(timeSlotTag, timeSlotValidation)
	core.RegisterCustomTranslation(validate, translator, timeSlotTag, timeSlotText)
}

func timeSlotValidation(fl validator.FieldLevel) bool {
	return IsValidTimeSlot(fl.Field().String())
}
