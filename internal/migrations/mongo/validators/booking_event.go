package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingEventValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"type",
			"booking_id",
			"slot_id",
			"user_id",
			"occurred_at",
			"recorded_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"type": bson.M{
				"bsonType": "string",
				"enum":     []string{"booking.reserved", "booking.canceled"},
			},

			"booked_count": bson.M{
				"bsonType": integer,
				"minimum":  -1,
			},

			"occurred_at": bson.M{
				"bsonType": "date",
			},

			"recorded_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
