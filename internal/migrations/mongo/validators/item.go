package validators

import "go.mongodb.org/mongo-driver/bson"

var ItemValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"price_per_day",
			"max_duration_days",
			"is_available",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 255,
			},

			"description": bson.M{
				"bsonType": "string",
			},

			"category": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"price_per_day": bson.M{
				"bsonType":         []string{"double", "int", "long"},
				"exclusiveMinimum": true,
				"minimum":          0,
			},

			"max_duration_days": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"is_available": bson.M{
				"bsonType": "bool",
			},

			"location": bson.M{
				"bsonType":  "string",
				"maxLength": 255,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
