package api

import (
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/terraincognita07/micronutri/internal/i18n"
	"github.com/terraincognita07/micronutri/internal/services"
)

func newTemplateFuncMap() template.FuncMap {
	return template.FuncMap{
		"t":               templateTranslate,
		"tf":              templateTranslatef,
		"choiceLabel":     templateChoiceLabel,
		"yesNo":           templateYesNo,
		"fieldError":      templateFieldError,
		"formValue":       templateFormValue,
		"isSelected":      templateIsSelected,
		"joinTags":        templateJoinTags,
		"formatFloat":     templateFormatFloat,
		"progressPercent": templateProgressPercent,
		"dict":            templateDict,
		"list":            templateList,
	}
}

func templateTranslate(messages map[string]string, key string) string {
	return i18n.Lookup(messages, key)
}

func templateTranslatef(messages map[string]string, key string, args ...any) string {
	return fmt.Sprintf(i18n.Lookup(messages, key), args...)
}

func templateChoiceLabel(messages map[string]string, group string, value string) string {
	key := choiceTranslationKey(group, value)
	if key == "" {
		return ""
	}
	return i18n.Lookup(messages, key)
}

func templateYesNo(messages map[string]string, value bool) string {
	if value {
		return i18n.Lookup(messages, "common.yes")
	}
	return i18n.Lookup(messages, "common.no")
}

func templateFieldError(errs services.FieldErrors, field string) string {
	if errs == nil {
		return ""
	}
	return errs[field]
}

func templateFormValue(values map[string]string, field string) string {
	if values == nil {
		return ""
	}
	return values[field]
}

func templateIsSelected(values map[string]string, field string, option string) bool {
	return strings.EqualFold(templateFormValue(values, field), option)
}

func templateJoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

func templateFormatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func templateProgressPercent(stageNumber int, stageCount int) int {
	if stageCount <= 0 {
		return 0
	}
	return stageNumber * 100 / stageCount
}

func templateDict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, errors.New("dict expects key/value pairs")
	}
	result := make(map[string]any, len(values)/2)
	for index := 0; index < len(values); index += 2 {
		key, ok := values[index].(string)
		if !ok {
			return nil, errors.New("dict keys must be strings")
		}
		result[key] = values[index+1]
	}
	return result, nil
}

func templateList(values ...string) []string {
	return values
}
