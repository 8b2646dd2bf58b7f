package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	StudentID string `json:"studentId" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Type      string `json:"type" validate:"omitempty,oneof=individual team"`
	Rating    int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Price     *int   `json:"price" validate:"omitempty,gte=0"`
}

func TestStruct(t *testing.T) {
	neg := -1
	cases := []struct {
		name string
		in   sample
		want string
	}{
		{"ok", sample{StudentID: "S1", Email: "a@b.co", Type: "team", Rating: 5}, ""},
		{"missing", sample{}, "studentId is required"},
		{"email", sample{StudentID: "S1", Email: "nope"}, "email must be a valid email address"},
		{"enum", sample{StudentID: "S1", Type: "solo"}, "type must be one of: individual, team"},
		{"range", sample{StudentID: "S1", Rating: 9}, "rating must be at most 5"},
		{"negative", sample{StudentID: "S1", Price: &neg}, "price must be greater than or equal to 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.in)
			if tc.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tc.want)
		})
	}
}
