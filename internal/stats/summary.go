// Package stats computes recipient-facing aggregates over a feedback
// list. Pure functions, no I/O.
package stats

import "teampulse-backend/internal/models"

type SentimentCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

type Summary struct {
	AverageRating   float64         `json:"average_rating"`
	TotalCount      int             `json:"total_count"`
	SentimentCounts SentimentCounts `json:"sentiment_counts"`
}

// Summarize reduces a feedback list to its average rating and sentiment
// breakdown. The result is order-independent; an empty input yields an
// all-zero summary rather than a division by zero.
func Summarize(feedbacks []models.Feedback) Summary {
	s := Summary{TotalCount: len(feedbacks)}
	if len(feedbacks) == 0 {
		return s
	}

	sum := 0
	for _, fb := range feedbacks {
		sum += fb.Rating
		switch fb.OverallSentiment {
		case models.SentimentPositive:
			s.SentimentCounts.Positive++
		case models.SentimentNeutral:
			s.SentimentCounts.Neutral++
		case models.SentimentNegative:
			s.SentimentCounts.Negative++
		}
	}
	s.AverageRating = float64(sum) / float64(len(feedbacks))
	return s
}

// RatingOrDefault is the rating shown on user profiles: the average of
// received feedback, or 5 when the user has none yet.
func RatingOrDefault(s Summary) float64 {
	if s.TotalCount == 0 {
		return 5
	}
	return s.AverageRating
}
