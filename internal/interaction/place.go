package interaction

type Coordinates struct {
	Latitude  float64 `bson:"latitude" json:"latitude" validate:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude" validate:"longitude"`
}

type Location struct {
	Name        string      `bson:"name" json:"name" validate:"max=200"`
	Coordinates Coordinates `bson:"coordinates" json:"coordinates"`
}

type Weather struct {
	Temp        float64 `bson:"temp" json:"temp"`
	Description string  `bson:"description" json:"description"`
	Icon        string  `bson:"icon" json:"icon"`
}

func DefaultLocation() Location {
	return Location{Name: "Unknown Location"}
}

func DefaultWeather() Weather {
	return Weather{Description: "Unknown", Icon: "unknown"}
}
