package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Describe переводит ошибку привязки gin (validator/v10 или JSON) в сообщение для клиента.
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		messages := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			messages = append(messages, fmt.Sprintf("%s: %s", jsonName(fe), fieldMessage(fe)))
		}
		return strings.Join(messages, "; ")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s: неверный тип значения", typeErr.Field)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "некорректный JSON"
	}
	if errors.Is(err, io.EOF) {
		return "пустое тело запроса"
	}

	return "некорректные данные запроса"
}

func jsonName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return fe.StructField()
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "email":
		return "некорректный email"
	case "oneof":
		return "допустимые значения: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min", "gte":
		return "значение должно быть не меньше " + fe.Param()
	case "max", "lte":
		return "значение должно быть не больше " + fe.Param()
	case "uuid", "uuid4":
		return "некорректный UUID"
	}
	return "некорректное значение"
}
