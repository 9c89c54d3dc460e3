package web

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// errInvalidRequest wraps request bodies that fail their validate tags.
var errInvalidRequest = errors.New("invalid request")

var validate, translator = newValidator()

func newValidator() (*validator.Validate, ut.Translator) {
	v := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	// Report JSON names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v, trans
}

// validateRequest checks v against its validate tags. Field failures come
// back as one errInvalidRequest listing every offending field.
func validateRequest(v any) error {
	err := validate.Struct(v)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(translator))
	}
	sort.Strings(msgs)
	return fmt.Errorf("%w: %s", errInvalidRequest, strings.Join(msgs, "; "))
}
