package learner

import (
	"reflect"
	"testing"
)

func TestNormalizeCourses(t *testing.T) {
	tests := []struct {
		name    string
		raw     interface{}
		want    []string
		wantErr error
	}{
		{
			name: "delimited string",
			raw:  "Web Development, Video Editing",
			want: []string{"Web Development", "Video Editing"},
		},
		{
			name: "duplicates keep first-seen order",
			raw:  "Web Development, Video Editing, Web Development",
			want: []string{"Web Development", "Video Editing"},
		},
		{
			name: "arbitrary whitespace",
			raw:  "  Graphic Design ,Web Development,  ,Graphic Design",
			want: []string{"Graphic Design", "Web Development"},
		},
		{
			name: "structured sequence",
			raw:  []string{"Video Editing", " Web Development "},
			want: []string{"Video Editing", "Web Development"},
		},
		{
			name: "decoded document sequence",
			raw:  []interface{}{"Web Development", "Web Development", "Video Editing"},
			want: []string{"Web Development", "Video Editing"},
		},
		{
			name: "empty string is no enrollment, not an error",
			raw:  "",
			want: []string{},
		},
		{
			name:    "absent field",
			raw:     nil,
			wantErr: ErrMalformedEnrollment,
		},
		{
			name:    "unusable type",
			raw:     42,
			wantErr: ErrMalformedEnrollment,
		},
		{
			name:    "sequence with non-string element",
			raw:     []interface{}{"Web Development", 3},
			wantErr: ErrMalformedEnrollment,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCourses(tt.raw)
			if err != tt.wantErr {
				t.Fatalf("NormalizeCourses() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeCourses() = %v, want %v", got, tt.want)
			}
		})
	}
}
