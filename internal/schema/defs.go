package schema

// Request payload schemas. Handlers validate incoming bodies against
// these before decoding into typed inputs.

var BotPayload = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"name":        map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 100},
		"description": map[string]interface{}{"type": "string", "maxLength": 1000},
		"language":    map[string]interface{}{"type": "string", "enum": []string{"javascript", "python", "go"}},
		"framework":   map[string]interface{}{"type": "string", "maxLength": 100},
		"code":        map[string]interface{}{"type": "string"},
	},
	"required":             []string{"name"},
	"additionalProperties": false,
}

var TicketPayload = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"subject":  map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 200},
		"message":  map[string]interface{}{"type": "string", "maxLength": 5000},
		"priority": map[string]interface{}{"type": "string", "enum": []string{"low", "medium", "high"}},
	},
	"required":             []string{"subject"},
	"additionalProperties": false,
}

var IncidentPayload = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"title":            map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 200},
		"description":      map[string]interface{}{"type": "string", "maxLength": 5000},
		"status":           map[string]interface{}{"type": "string", "enum": []string{"scheduled", "in_progress", "completed", "resolved"}},
		"impact":           map[string]interface{}{"type": "string", "enum": []string{"minor", "major", "critical"}},
		"start_time":       map[string]interface{}{"type": "string", "format": "date-time"},
		"end_time":         map[string]interface{}{"type": "string", "format": "date-time"},
		"completion_notes": map[string]interface{}{"type": "string", "maxLength": 5000},
	},
	"required":             []string{"title"},
	"additionalProperties": false,
}

var ReplyPayload = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"message": map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 5000},
	},
	"required":             []string{"message"},
	"additionalProperties": false,
}
