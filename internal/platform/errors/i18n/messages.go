package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeChartInvalidDate       = "CHART_INVALID_DATE"
	CodeChartOutOfRange        = "CHART_OUT_OF_RANGE"
	CodeChartInvalidHour       = "CHART_INVALID_HOUR"
	CodeChartInvalidSex        = "CHART_INVALID_SEX"
	CodeChartInvalidInput      = "CHART_INVALID_INPUT"
	CodeChartInternal          = "CHART_INTERNAL"
	CodeChartNameEmpty         = "CHART_NAME_EMPTY"
	CodeAccountInvalidUsername = "ACCOUNT_INVALID_USERNAME"
	CodeAccountWeakPassword    = "ACCOUNT_WEAK_PASSWORD"
	CodeAccountBadCredentials  = "ACCOUNT_BAD_CREDENTIALS"
	CodeNarrativeUnavailable   = "NARRATIVE_UNAVAILABLE"
	CodeNotFound               = "NOT_FOUND"
	CodeAlreadyExists          = "ALREADY_EXISTS"
	CodeUnauthenticated        = "UNAUTHENTICATED"
	CodePermissionDenied       = "PERMISSION_DENIED"
)

var enUS = map[Code]string{
	CodeChartInvalidDate:       "{{.Date}} is not a valid calendar date",
	CodeChartOutOfRange:        "{{.Date}} is outside the supported range 1900-01-31 to 2100-12-31",
	CodeChartInvalidHour:       "birth time {{.Time}} is not a valid hour",
	CodeChartInvalidSex:        "sex must be M or F",
	CodeChartInvalidInput:      "{{.Field}} is malformed",
	CodeChartInternal:          "the chart could not be computed",
	CodeChartNameEmpty:         "chart name is required",
	CodeAccountInvalidUsername: "username must be 3 to 32 letters, digits, dots, dashes or underscores",
	CodeAccountWeakPassword:    "password must be at least {{.MinLength}} characters",
	CodeAccountBadCredentials:  "username or password is incorrect",
	CodeNarrativeUnavailable:   "chart interpretation is unavailable right now",
	CodeNotFound:               "{{.Resource}} not found",
	CodeAlreadyExists:          "{{.Resource}} already exists",
	CodeUnauthenticated:        "sign in to continue",
	CodePermissionDenied:       "you do not have access to this chart",
}

var zhTW = map[Code]string{
	CodeChartInvalidDate:       "{{.Date}} 不是有效的日期",
	CodeChartOutOfRange:        "{{.Date}} 超出支援範圍（1900-01-31 至 2100-12-31）",
	CodeChartInvalidHour:       "出生時間 {{.Time}} 無效",
	CodeChartInvalidSex:        "性別必須為 M 或 F",
	CodeChartInvalidInput:      "{{.Field}} 格式錯誤",
	CodeChartInternal:          "無法排盤",
	CodeChartNameEmpty:         "請輸入命盤名稱",
	CodeAccountInvalidUsername: "帳號須為 3 至 32 個英數字、點、連字號或底線",
	CodeAccountWeakPassword:    "密碼至少需要 {{.MinLength}} 個字元",
	CodeAccountBadCredentials:  "帳號或密碼錯誤",
	CodeNarrativeUnavailable:   "目前無法提供命盤解讀",
	CodeNotFound:               "找不到{{.Resource}}",
	CodeAlreadyExists:          "{{.Resource}}已存在",
	CodeUnauthenticated:        "請先登入",
	CodePermissionDenied:       "您無權存取此命盤",
}
