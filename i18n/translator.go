package i18n

import (
	"sort"
	"strings"
)

// Message keys. Most match the error code that carries the message; the
// remaining keys are fragments composed into larger messages.
const (
	Missing          = "missing"
	MissingRoot      = "missing_root"
	Convert          = "convert"
	Constant         = "constant"
	Enum             = "enum"
	OrSetExhausted   = "orset_exhausted"
	OrSetBranch      = "orset_branch"
	TypeMismatch     = "type_mismatch"
	ValidationFailed = "validation_failed"
	EnsureFailure    = "ensure_failure"
	TopLevel         = "top_level"
	InvalidSchema    = "invalid_schema"
	TooShort         = "too_short"
	TooLong          = "too_long"
	Pattern          = "pattern"
	InvalidFormat    = "invalid_format"
	TooSmall         = "too_small"
	TooBig           = "too_big"
	NotANumber       = "not_a_number"
	RequiresNaN      = "requires_nan"
	RequiresNumber   = "requires_number"
	DateRange        = "date_range"
	DateBefore       = "date_before"
	DateAfter        = "date_after"
	DateMoreThanAgo  = "date_more_than_ago"
	DateLessThanAgo  = "date_less_than_ago"
	Duplicate        = "duplicate"
	Empty            = "empty"
	TooFewItems      = "too_few_items"
	TooManyItems     = "too_many_items"
	AnyOfFields      = "any_of_fields"
	OneOfFields      = "one_of_fields"
	Integer          = "integer"
)

// Translator retrieves localized messages for message keys.
// data provides the values substituted for {name} placeholders.
type Translator interface {
	Message(key string, data map[string]string) string
}

var english = map[string]string{
	Missing:          `Missing required {type} at path "{path}".`,
	MissingRoot:      `Missing required {type}.`,
	Convert:          `Unable to convert {from} to {to}.`,
	Constant:         `Supplied source ({got}) did not match expected constant value ({want}).`,
	Enum:             `"{value}" is not a valid enumeration value. (Expected: {members})`,
	OrSetExhausted:   `Provided value ({type}) matched no schemas ({types}).`,
	OrSetBranch:      `Schema #{index}: {reason}`,
	TypeMismatch:     `type mismatch (expected {want}, got {got})`,
	ValidationFailed: `Validation failed.`,
	EnsureFailure:    `Failed to ensure value.`,
	TopLevel:         `Encountered {count} error(s).`,
	InvalidSchema:    `Invalid schema: {reason}`,
	TooShort:         `String "{value}" failed minimum length check. ({min})`,
	TooLong:          `String "{value}" failed maximum length check. ({max})`,
	Pattern:          `String "{value}" failed regular expression check. ({pattern})`,
	InvalidFormat:    `String "{value}" failed {format} format check.`,
	TooSmall:         `Number {value} failed minimum check. ({min})`,
	TooBig:           `Number {value} failed maximum check. ({max})`,
	NotANumber:       `Number {value} failed not a number check. ({expect})`,
	RequiresNaN:      `Requires NaN`,
	RequiresNumber:   `Requires valid number`,
	DateRange:        `Date "{value}" failed check. ({rule})`,
	DateBefore:       `Must be before {date}`,
	DateAfter:        `Must be after {date}`,
	DateMoreThanAgo:  `Must be more than {duration} ago`,
	DateLessThanAgo:  `Must be less than {duration} ago`,
	Duplicate:        `Duplicate value {key} (first seen at index {first}).`,
	Empty:            `Value must not be empty.`,
	TooFewItems:      `Expected at least {min} item(s), got {count}.`,
	TooManyItems:     `Expected at most {max} item(s), got {count}.`,
	AnyOfFields:      `At least one of {fields} must be set.`,
	OneOfFields:      `Exactly one of {fields} must be set.`,
	Integer:          `Number {value} is not an integer.`,
}

var japanese = map[string]string{
	Missing:          `必須の{type}がパス "{path}" にありません。`,
	MissingRoot:      `必須の{type}がありません。`,
	Convert:          `{from} を {to} に変換できません。`,
	Constant:         `入力値 ({got}) が期待される定数 ({want}) と一致しません。`,
	Enum:             `"{value}" は有効な列挙値ではありません。(候補: {members})`,
	OrSetExhausted:   `入力値 ({type}) はどのスキーマにも一致しません ({types})。`,
	OrSetBranch:      `スキーマ #{index}: {reason}`,
	TypeMismatch:     `型が一致しません (期待: {want}, 実際: {got})`,
	ValidationFailed: `検証に失敗しました。`,
	EnsureFailure:    `値の確認に失敗しました。`,
	TopLevel:         `{count} 件のエラーが発生しました。`,
	InvalidSchema:    `スキーマが不正です: {reason}`,
	TooShort:         `文字列 "{value}" が最小長チェックに失敗しました。({min})`,
	TooLong:          `文字列 "{value}" が最大長チェックに失敗しました。({max})`,
	Pattern:          `文字列 "{value}" が正規表現チェックに失敗しました。({pattern})`,
	InvalidFormat:    `文字列 "{value}" が {format} 形式ではありません。`,
	TooSmall:         `数値 {value} が最小値チェックに失敗しました。({min})`,
	TooBig:           `数値 {value} が最大値チェックに失敗しました。({max})`,
	NotANumber:       `数値 {value} が NaN チェックに失敗しました。({expect})`,
	RequiresNaN:      `NaN が必要です`,
	RequiresNumber:   `有効な数値が必要です`,
	DateRange:        `日時 "{value}" がチェックに失敗しました。({rule})`,
	DateBefore:       `{date} より前である必要があります`,
	DateAfter:        `{date} より後である必要があります`,
	DateMoreThanAgo:  `{duration} より前である必要があります`,
	DateLessThanAgo:  `{duration} 以内である必要があります`,
	Duplicate:        `値 {key} が重複しています (最初の位置: {first})。`,
	Empty:            `値を空にすることはできません。`,
	TooFewItems:      `{min} 件以上の要素が必要です (実際: {count})。`,
	TooManyItems:     `{max} 件以下の要素が必要です (実際: {count})。`,
	AnyOfFields:      `{fields} のいずれかを指定してください。`,
	OneOfFields:      `{fields} のうち正確に 1 つを指定してください。`,
	Integer:          `数値 {value} は整数ではありません。`,
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(key string, data map[string]string) string {
	tmpl, ok := english[key]
	if t.lang == "ja" {
		if ja, found := japanese[key]; found {
			tmpl, ok = ja, true
		}
	}
	if !ok {
		return key
	}
	return Expand(tmpl, data)
}

// Expand substitutes {name} placeholders in tmpl with values from data.
// Unknown placeholders are left untouched.
func Expand(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", data[k])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given key using the current Translator.
func T(key string, data map[string]string) string { return currentTranslator.Message(key, data) }
