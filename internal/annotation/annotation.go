// Package annotation captures the shelving details a librarian adds to a
// matched record before it is saved.
package annotation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lehigh-university-libraries/accessioner/internal/catalog"
	domainerrors "github.com/lehigh-university-libraries/accessioner/internal/errors"
)

// Names of the columns appended to every annotated row, after no_of_copies.
const (
	RackLocationColumn  = "RackLocation"
	StudentRatingColumn = "StudentRating"
	TeacherRatingColumn = "TeacherRating"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Annotation holds the three operator-supplied fields.
type Annotation struct {
	RackLocation  string `json:"rack_location"`
	StudentRating int    `json:"student_rating" validate:"min=1,max=5"`
	TeacherRating int    `json:"teacher_rating" validate:"min=1,max=5"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Use JSON tag names in error details
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return v
}

// Validate checks both ratings are integers in [MinRating, MaxRating]. Every
// entry point must call it; the bounds are not enforced anywhere else.
func (a Annotation) Validate() error {
	err := validate.Struct(a)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = fmt.Sprintf("must be between %d and %d, got %v", MinRating, MaxRating, e.Value())
	}
	return domainerrors.ValidationWithDetails("rating out of range", fieldErrors)
}

// Apply validates a and appends the rack location and both ratings to every row
// of m. The returned header is m.Columns followed by the three annotation
// columns.
func Apply(m *catalog.Match, a Annotation) ([]string, [][]string, error) {
	if err := a.Validate(); err != nil {
		return nil, nil, err
	}

	header := make([]string, 0, len(m.Columns)+3)
	header = append(header, m.Columns...)
	header = append(header, RackLocationColumn, StudentRatingColumn, TeacherRatingColumn)

	extra := []string{a.RackLocation, strconv.Itoa(a.StudentRating), strconv.Itoa(a.TeacherRating)}
	rows := make([][]string, 0, len(m.Rows))
	for _, row := range m.Rows {
		annotated := make([]string, 0, len(row)+len(extra))
		annotated = append(annotated, row...)
		annotated = append(annotated, extra...)
		rows = append(rows, annotated)
	}

	return header, rows, nil
}
