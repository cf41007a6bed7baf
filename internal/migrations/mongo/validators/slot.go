package validators

import "go.mongodb.org/mongo-driver/bson"

var integer = []string{"int", "long"}

var SlotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"start_at",
			"end_at",
			"capacity",
			"booked_count",
			"status",
			"location",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"title": bson.M{
				"bsonType":  "string",
				"maxLength": 120,
			},

			"start_at": bson.M{
				"bsonType": "date",
			},

			"end_at": bson.M{
				"bsonType": "date",
			},

			"capacity": bson.M{
				"bsonType": integer,
				"minimum":  1,
				"maximum":  200,
			},

			"booked_count": bson.M{
				"bsonType": integer,
				"minimum":  0,
				"maximum":  200,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"open", "closed"},
			},

			"location": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
	// Field-to-field rules are outside $jsonSchema.
	"$expr": bson.M{
		"$and": bson.A{
			bson.M{"$lt": bson.A{"$start_at", "$end_at"}},
			bson.M{"$lte": bson.A{"$booked_count", "$capacity"}},
		},
	},
}
