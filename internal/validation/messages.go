package validation

// messages maps "path|keyword" to the client-facing message for that rule.
// Rules missing here fall back to the schema library's English text.
var messages = map[string]string{
	"params|type":         "Params must be an object",
	"params.id|required":  "Todo ID is required",
	"params.id|type":      "Todo ID is required",
	"params.id|minLength": "Todo ID is required",

	"body|type":  "Request body must be a JSON object",
	"body|anyOf": "At least one field must be provided for update",

	"body.title|required":  "Title is required",
	"body.title|type":      "Title must be a string",
	"body.title|format":    "Title is required",
	"body.title|maxLength": "Title too long",

	"body.description|required":  "Description is required",
	"body.description|type":      "Description must be a string",
	"body.description|format":    "Description is required",
	"body.description|maxLength": "Description too long",

	"body.completed|type": "Completed must be a boolean",

	"body.dueDate|type":   "Invalid datetime",
	"body.dueDate|format": "Invalid datetime",
}

var fieldOrder = []string{
	"params",
	"params.id",
	"body",
	"body.title",
	"body.description",
	"body.completed",
	"body.dueDate",
}
