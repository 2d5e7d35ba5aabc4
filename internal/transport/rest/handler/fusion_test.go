package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mindscreen/internal/model"
	"mindscreen/internal/service"
)

func TestParseFusionRequest(t *testing.T) {
	cases := []struct {
		name string
		body string
		want model.ScoreSet
	}{
		{
			name: "two modalities",
			body: `{"user_id":"u1","assessment_id":"a1","text_analysis":{"emotion_score":8},"voice_analysis":{"emotion_score":6}}`,
			want: model.ScoreSet{model.ModalityText: 8, model.ModalityVoice: 6},
		},
		{
			name: "missing score and null analysis are inactive",
			body: `{"user_id":"u1","assessment_id":"a1","image_analysis":{"label":"sad"},"video_analysis":null}`,
			want: model.ScoreSet{},
		},
		{
			name: "present zero is kept",
			body: `{"user_id":"u1","assessment_id":"a1","text_analysis":{"emotion_score":0}}`,
			want: model.ScoreSet{model.ModalityText: 0},
		},
		{
			name: "above scale is clamped",
			body: `{"user_id":"u1","assessment_id":"a1","video_analysis":{"emotion_score":14.5,"frames":30}}`,
			want: model.ScoreSet{model.ModalityVideo: 10},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in, err := parseFusionRequest(strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if in.UserID != "u1" || in.AssessmentID != "a1" {
				t.Fatalf("ids = %q, %q", in.UserID, in.AssessmentID)
			}
			if diff := cmp.Diff(tc.want, in.Scores); diff != "" {
				t.Fatalf("scores mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFusionRequestRejects(t *testing.T) {
	cases := map[string]struct {
		body string
		want error
	}{
		"unknown field":    {`{"user_id":"u1","audio_analysis":{"emotion_score":3}}`, service.ErrInvalidRequest},
		"negative score":   {`{"text_analysis":{"emotion_score":-1}}`, model.ErrInvalidScore},
		"string score":     {`{"text_analysis":{"emotion_score":"8"}}`, service.ErrInvalidRequest},
		"analysis not obj": {`{"text_analysis":8}`, service.ErrInvalidRequest},
		"not json":         {`text=8`, service.ErrInvalidRequest},
		"numeric user id":  {`{"user_id":42}`, service.ErrInvalidRequest},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseFusionRequest(strings.NewReader(tc.body))
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
