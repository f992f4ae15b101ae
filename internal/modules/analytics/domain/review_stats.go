package domain

import (
	"sort"
	"time"

	reviewdomain "spacedrep/internal/modules/review/domain"
)

const (
	DefaultMinCategoryReviews = 3
	DefaultCategoryLimit      = 3
)

type StatsOptions struct {
	// MinCategoryReviews excludes categories with fewer reviews from the ranking.
	MinCategoryReviews int
	// CategoryLimit caps the strongest and weakest lists.
	CategoryLimit int
}

func DefaultStatsOptions() StatsOptions {
	return StatsOptions{MinCategoryReviews: DefaultMinCategoryReviews, CategoryLimit: DefaultCategoryLimit}
}

type CategoryRetention struct {
	Category      string
	RetentionRate float64
	ReviewCount   int
}

type ReviewStats struct {
	TotalReviews        int
	AverageConfidence   float64
	RetentionRate       float64
	StreakDays          int
	ReviewsThisWeek     int
	ReviewsThisMonth    int
	StrongestCategories []CategoryRetention
	WeakestCategories   []CategoryRetention
	// BestStudyHour is the most frequent review hour in now's location, 0 with no reviews.
	BestStudyHour int
	// AverageSessionDuration is the mean length in minutes of completed sessions.
	AverageSessionDuration float64
}

type categoryTally struct {
	reviews int
	correct int
}

// ReviewStatsAccumulator folds reviews into ReviewStats in a single pass. Reviews
// may arrive in any order and in any number of batches.
type ReviewStatsAccumulator struct {
	now     time.Time
	catalog TopicCatalog
	opts    StatsOptions

	total         int
	correct       int
	confidenceSum float64
	week          int
	month         int
	days          map[string]bool
	hours         [24]int
	categories    map[string]*categoryTally
}

func NewReviewStatsAccumulator(now time.Time, catalog TopicCatalog, opts StatsOptions) *ReviewStatsAccumulator {
	if opts.MinCategoryReviews < 1 {
		opts.MinCategoryReviews = DefaultMinCategoryReviews
	}
	if opts.CategoryLimit < 1 {
		opts.CategoryLimit = DefaultCategoryLimit
	}
	return &ReviewStatsAccumulator{
		now:        now,
		catalog:    catalog,
		opts:       opts,
		days:       make(map[string]bool),
		categories: make(map[string]*categoryTally),
	}
}

// Add folds a batch. A malformed review fails the whole aggregation; the
// accumulator must not be used after an error.
func (a *ReviewStatsAccumulator) Add(reviews ...reviewdomain.Review) error {
	loc := a.now.Location()
	for _, review := range reviews {
		if err := review.Validate(); err != nil {
			return err
		}
		correct := review.Confidence.WasCorrect()
		if a.catalog != nil {
			topic, err := a.catalog.lookup(review.TopicID)
			if err != nil {
				return err
			}
			tally, ok := a.categories[topic.Category]
			if !ok {
				tally = &categoryTally{}
				a.categories[topic.Category] = tally
			}
			tally.reviews++
			if correct {
				tally.correct++
			}
		}

		a.total++
		if correct {
			a.correct++
		}
		a.confidenceSum += review.Confidence.Multiplier()
		a.days[dayKey(review.ReviewedAt, loc)] = true
		a.hours[review.ReviewedAt.In(loc).Hour()]++
		if !review.ReviewedAt.After(a.now) {
			age := a.now.Sub(review.ReviewedAt)
			if age < 7*day {
				a.week++
			}
			if age < 30*day {
				a.month++
			}
		}
	}
	return nil
}

func (a *ReviewStatsAccumulator) Result() ReviewStats {
	stats := ReviewStats{
		TotalReviews:     a.total,
		StreakDays:       streak(a.days, a.now),
		ReviewsThisWeek:  a.week,
		ReviewsThisMonth: a.month,
	}
	if a.total == 0 {
		return stats
	}
	stats.AverageConfidence = a.confidenceSum / float64(a.total)
	stats.RetentionRate = float64(a.correct) / float64(a.total)
	if hours := modeHours(a.hours); len(hours) > 0 {
		stats.BestStudyHour = hours[0]
	}
	stats.StrongestCategories, stats.WeakestCategories = a.rankCategories()
	return stats
}

func (a *ReviewStatsAccumulator) rankCategories() ([]CategoryRetention, []CategoryRetention) {
	ranked := make([]CategoryRetention, 0, len(a.categories))
	for name, tally := range a.categories {
		if tally.reviews < a.opts.MinCategoryReviews {
			continue
		}
		ranked = append(ranked, CategoryRetention{
			Category:      name,
			RetentionRate: float64(tally.correct) / float64(tally.reviews),
			ReviewCount:   tally.reviews,
		})
	}
	if len(ranked) == 0 {
		return nil, nil
	}

	strongest := append([]CategoryRetention(nil), ranked...)
	sort.Slice(strongest, func(i, j int) bool {
		return lessCategory(strongest[i], strongest[j], true)
	})
	weakest := append([]CategoryRetention(nil), ranked...)
	sort.Slice(weakest, func(i, j int) bool {
		return lessCategory(weakest[i], weakest[j], false)
	})
	return limit(strongest, a.opts.CategoryLimit), limit(weakest, a.opts.CategoryLimit)
}

// lessCategory orders by retention (descending when strongest), then by the
// larger sample, then by name.
func lessCategory(x, y CategoryRetention, strongest bool) bool {
	if x.RetentionRate != y.RetentionRate {
		if strongest {
			return x.RetentionRate > y.RetentionRate
		}
		return x.RetentionRate < y.RetentionRate
	}
	if x.ReviewCount != y.ReviewCount {
		return x.ReviewCount > y.ReviewCount
	}
	return x.Category < y.Category
}

func limit(values []CategoryRetention, n int) []CategoryRetention {
	if len(values) > n {
		return values[:n]
	}
	return values
}

// ComputeReviewStats folds reviews with the default options.
func ComputeReviewStats(reviews []reviewdomain.Review, catalog TopicCatalog, now time.Time) (ReviewStats, error) {
	acc := NewReviewStatsAccumulator(now, catalog, DefaultStatsOptions())
	if err := acc.Add(reviews...); err != nil {
		return ReviewStats{}, err
	}
	return acc.Result(), nil
}
