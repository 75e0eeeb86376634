package models

// DailyEntry is one day's health metrics, keyed by date. Field names keep
// the capitalized spelling of pre-existing documents.
type DailyEntry struct {
	Date       string  `json:"Date"`
	Weight     float64 `json:"Weight"`
	SleepHours float64 `json:"SleepHours"`
	Calories   int     `json:"Calories"`
	Protein    int     `json:"Protein"`
	Carbs      int     `json:"Carbs"`
	Fats       int     `json:"Fats"`
	Steps      int     `json:"Steps"`
	Training   string  `json:"Training"`
	Cardio     int     `json:"Cardio"`
}
