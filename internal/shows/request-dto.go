package shows

// AddShowsRequest schedules screenings for one movie. Each input date
// fans out into one show per listed time.
type AddShowsRequest struct {
	MovieID    string      `json:"movieId" binding:"required"`
	ShowsInput []ShowInput `json:"showsInput" binding:"required,min=1,dive"`
	ShowPrice  float64     `json:"showPrice" binding:"required,gt=0"`
}

type ShowInput struct {
	Date  string   `json:"date" binding:"required,datetime=2006-01-02"`
	Times []string `json:"time" binding:"required,min=1,dive,datetime=15:04"`
}
