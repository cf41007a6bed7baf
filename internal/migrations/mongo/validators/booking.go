package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"slot_id",
			"user_id",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"slot_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"user_email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},

			"user_name": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"active", "canceled"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"canceled_at": bson.M{
				"bsonType": "date",
			},

			"canceled_by": bson.M{
				"bsonType": "string",
			},
		},
	},
}
