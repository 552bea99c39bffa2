package logging

// Field names shared by every component so log output can be filtered consistently.
const (
	FieldFile        = "file_path"
	FieldSource      = "source"
	FieldUserID      = "user_id"
	FieldCategory    = "category"
	FieldMethod      = "method"
	FieldConfidence  = "confidence"
	FieldMatcher     = "matcher"
	FieldReason      = "reason"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldDelimiter   = "delimiter"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
	FieldDescription = "description"
	FieldProvider    = "provider"
)
