package config

// profileSchema is the JSON Schema every profile file must satisfy.
const profileSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["profiles"],
	"additionalProperties": false,
	"properties": {
		"variables": { "$ref": "#/$defs/stringMap" },
		"profiles": {
			"type": "object",
			"minProperties": 1,
			"additionalProperties": { "$ref": "#/$defs/profile" }
		}
	},
	"$defs": {
		"stringMap": {
			"type": "object",
			"additionalProperties": { "type": "string" }
		},
		"profile": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"baseUrl": { "type": "string" },
				"headers": { "$ref": "#/$defs/stringMap" },
				"cookies": { "$ref": "#/$defs/stringMap" },
				"timeout": { "type": "string" },
				"maxRedirects": { "type": "integer" },
				"redirectPolicy": { "enum": ["preserve", "rfc7231"] },
				"insecure": { "type": "boolean" },
				"referer": { "type": "string" },
				"autoReferer": { "type": "boolean" },
				"noFollow": { "type": "boolean" },
				"variables": { "$ref": "#/$defs/stringMap" }
			}
		}
	}
}`
