// internal/catalog/schema.go
package catalog

// catalogSchema is the JSON Schema every intent catalog document must satisfy
// before it is unmarshalled. Unknown fields are rejected: a typo in a weight
// name must fail startup, not silently score zero.
const catalogSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["intents", "urgency_keywords", "time_patterns", "complexity"],
  "properties": {
    "intents": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["id", "description", "keywords"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "keywords": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
          "sectors_hint": {"type": "boolean"},
          "metrics_hint": {"type": "boolean"},
          "metric_subset": {"type": "array", "items": {"type": "string", "minLength": 1}},
          "examples": {"type": "array", "items": {"type": "string"}},
          "prefetch": {
            "type": "array",
            "items": {
              "type": "object",
              "additionalProperties": false,
              "required": ["function"],
              "properties": {
                "function": {"type": "string", "minLength": 1},
                "wants": {
                  "type": "array",
                  "items": {"type": "string", "enum": ["sectors", "metrics", "window"]}
                }
              }
            }
          }
        }
      }
    },
    "urgency_keywords": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "minLength": 1}
    },
    "time_patterns": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["kind", "pattern"],
        "properties": {
          "kind": {"type": "string", "enum": ["relative", "immediate", "absolute_range", "absolute_open"]},
          "pattern": {"type": "string", "minLength": 1}
        }
      }
    },
    "complexity": {
      "type": "object",
      "additionalProperties": false,
      "required": ["weights", "thresholds"],
      "properties": {
        "weights": {
          "type": "object",
          "additionalProperties": false,
          "required": [
            "intent_single", "intent_multi",
            "sector_few", "sector_many",
            "horizon_short", "horizon_medium", "horizon_long",
            "metrics_none", "metrics_few", "metrics_many",
            "urgency_bonus"
          ],
          "properties": {
            "intent_single": {"type": "integer", "minimum": 0},
            "intent_multi": {"type": "integer", "minimum": 0},
            "sector_few": {"type": "integer", "minimum": 0},
            "sector_many": {"type": "integer", "minimum": 0},
            "horizon_short": {"type": "integer", "minimum": 0},
            "horizon_medium": {"type": "integer", "minimum": 0},
            "horizon_long": {"type": "integer", "minimum": 0},
            "metrics_none": {"type": "integer", "minimum": 0},
            "metrics_few": {"type": "integer", "minimum": 0},
            "metrics_many": {"type": "integer", "minimum": 0},
            "urgency_bonus": {"type": "integer", "minimum": 0}
          }
        },
        "thresholds": {
          "type": "array",
          "minItems": 4,
          "maxItems": 4,
          "items": {
            "type": "object",
            "additionalProperties": false,
            "required": ["bucket", "min"],
            "properties": {
              "bucket": {"type": "string", "enum": ["simple", "medium", "complex", "crisis"]},
              "min": {"type": "integer", "minimum": 0},
              "max": {"type": ["integer", "null"], "minimum": 0}
            }
          }
        }
      }
    }
  }
}`
