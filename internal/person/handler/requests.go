package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"lifepath/internal/numerology"
	"lifepath/internal/person/models"
	dErrors "lifepath/pkg/domain-errors"
	pstrings "lifepath/pkg/platform/strings"
)

// createRequest is the wire shape of a person creation.
type createRequest struct {
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	Description        string  `json:"description"`
	IsMoralPerson      bool    `json:"is_moral_person"`
	BirthDate          string  `json:"birth_date"`
	DeathDate          string  `json:"death_date"`
	SelectedCategories []int64 `json:"selected_categories"`
	Confirm            bool    `json:"confirm"`
}

func (r createRequest) toInput() (models.NewPersonInput, error) {
	in := models.NewPersonInput{
		FirstName:     strings.TrimSpace(r.FirstName),
		LastName:      strings.TrimSpace(r.LastName),
		Description:   strings.TrimSpace(r.Description),
		IsMoralPerson: r.IsMoralPerson,
		CategoryIDs:   r.SelectedCategories,
		Confirm:       r.Confirm,
	}

	birth, err := numerology.ParseDate(r.BirthDate)
	if err != nil {
		return models.NewPersonInput{}, err
	}
	in.BirthDate = birth

	if r.DeathDate != "" {
		death, err := numerology.ParseDate(r.DeathDate)
		if err != nil {
			return models.NewPersonInput{}, err
		}
		in.DeathDate = &death
	}
	return in, nil
}

// criteriaFromQuery maps the flat query parameters onto SearchCriteria.
// Set-valued options are comma-separated, date bounds are ISO dates, and the
// tri-state moral filter uses -1/0/1 with absence meaning -1.
func criteriaFromQuery(r *http.Request) (models.SearchCriteria, error) {
	q := r.URL.Query()
	criteria := models.SearchCriteria{Name: strings.TrimSpace(q.Get("name"))}

	var err error
	if criteria.Numbers, err = parseIntSet(q.Get("numbers")); err != nil {
		return models.SearchCriteria{}, dErrors.New(dErrors.CodeBadRequest, "numbers must be a comma-separated list of integers")
	}
	if criteria.BirthDays, err = parseIntSet(q.Get("birth_days")); err != nil {
		return models.SearchCriteria{}, dErrors.New(dErrors.CodeBadRequest, "birth_days must be a comma-separated list of integers")
	}
	if criteria.CategoryIDs, err = parseInt64Set(q.Get("categories")); err != nil {
		return models.SearchCriteria{}, dErrors.New(dErrors.CodeBadRequest, "categories must be a comma-separated list of ids")
	}

	if criteria.Moral, err = parseMoral(q.Get("is_moral")); err != nil {
		return models.SearchCriteria{}, err
	}

	if criteria.BirthDateFrom, err = parseDateParam(q.Get("birth_date_from")); err != nil {
		return models.SearchCriteria{}, err
	}
	if criteria.BirthDateTo, err = parseDateParam(q.Get("birth_date_to")); err != nil {
		return models.SearchCriteria{}, err
	}
	if criteria.DeathDateFrom, err = parseDateParam(q.Get("death_date_from")); err != nil {
		return models.SearchCriteria{}, err
	}
	if criteria.DeathDateTo, err = parseDateParam(q.Get("death_date_to")); err != nil {
		return models.SearchCriteria{}, err
	}

	return criteria, nil
}

func parseMoral(raw string) (models.MoralFilter, error) {
	switch raw {
	case "", "-1":
		return models.MoralAny, nil
	case "0":
		return models.MoralPhysicalOnly, nil
	case "1":
		return models.MoralOnly, nil
	default:
		return models.MoralAny, dErrors.New(dErrors.CodeBadRequest, "is_moral must be -1, 0 or 1")
	}
}

func parseIntSet(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := pstrings.DedupeAndTrim(strings.Split(raw, ","))
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		values = append(values, n)
	}
	return values, nil
}

func parseInt64Set(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := pstrings.DedupeAndTrim(strings.Split(raw, ","))
	values := make([]int64, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		values = append(values, n)
	}
	return values, nil
}

func parseDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := numerology.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
