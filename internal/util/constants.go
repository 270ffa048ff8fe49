package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	// ScoreMax 自动分与人工分统一的百分制上限
	ScoreMax = 100.0
	ScoreMin = 0.0
)
