package mongox

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const toggledField = "_toggled"

func arr(field string) bson.D {
	return bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, bson.A{}}}}
}

func without(field string, actor any) bson.D {
	return bson.D{{Key: "$filter", Value: bson.D{
		{Key: "input", Value: arr(field)},
		{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", actor}}}},
	}}}
}

func with(field string, actor any) bson.D {
	return bson.D{{Key: "$concatArrays", Value: bson.A{arr(field), bson.A{actor}}}}
}

func size(field string) bson.D {
	return bson.D{{Key: "$size", Value: arr(field)}}
}

// Toggle returns an update pipeline that removes actor from the set stored in
// field when present and appends it otherwise. When counter is not empty it is
// reset to the new set size in the same update, so the two never drift.
func Toggle(field, counter string, actor any, now time.Time) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: field, Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$in", Value: bson.A{actor, arr(field)}}},
				without(field, actor),
				with(field, actor),
			}}}},
		}}},
	}
	last := bson.D{{Key: "updatedAt", Value: now}}
	if counter != "" {
		last = append(last, bson.E{Key: counter, Value: size(field)})
	}
	return append(p, bson.D{{Key: "$set", Value: last}})
}

// ToggleExclusive toggles actor in field like Toggle, and whenever the actor is
// added it is also removed from opposite. Both counters are recomputed.
func ToggleExclusive(field, counter, opposite, oppositeCounter string, actor any, now time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: toggledField, Value: bson.D{{Key: "$in", Value: bson.A{actor, arr(field)}}}},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: field, Value: bson.D{{Key: "$cond", Value: bson.A{
				"$" + toggledField,
				without(field, actor),
				with(field, actor),
			}}}},
			{Key: opposite, Value: bson.D{{Key: "$cond", Value: bson.A{
				"$" + toggledField,
				arr(opposite),
				without(opposite, actor),
			}}}},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: counter, Value: size(field)},
			{Key: oppositeCounter, Value: size(opposite)},
			{Key: "updatedAt", Value: now},
		}}},
		{{Key: "$unset", Value: toggledField}},
	}
}
