package verify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ppiankov/verifact/internal/llm"
	"github.com/ppiankov/verifact/internal/model"
)

// judgment is the strict schema a verification response must satisfy
type judgment struct {
	Status             string      `json:"status" validate:"required,verdict_status"`
	Confidence         *flexFloat  `json:"confidence" validate:"required,finite"`
	Explanation        *string     `json:"explanation"`
	CorrectInformation *string     `json:"correct_information"`
	Sources            flexStrings `json:"sources" validate:"dive,max=2048"`
}

// flexFloat accepts a JSON number or a numeric string
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("confidence %q is not a number", s)
		}
		*f = flexFloat(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// flexStrings accepts a list of URLs, a single URL string, or a list of
// objects carrying a "url" field
type flexStrings []string

func (s *flexStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = appendNonBlank(nil, one)
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("sources must be a list: %w", err)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		var str string
		if err := json.Unmarshal(item, &str); err == nil {
			out = appendNonBlank(out, str)
			continue
		}
		var obj struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return fmt.Errorf("unsupported source entry %s", string(item))
		}
		out = appendNonBlank(out, obj.URL)
	}
	*s = out
	return nil
}

func appendNonBlank(list []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		list = append(list, s)
	}
	return list
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("verdict_status", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseStatus(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

// ErrSchema marks a response that decoded but broke the verdict schema
var ErrSchema = errors.New("verdict schema violation")

// ParseVerdict decodes a judge response into a verdict. claim and category
// are left for the caller to fill in.
func ParseVerdict(v *validator.Validate, response string) (model.Verdict, error) {
	payload := llm.StripCodeFence(response)
	if payload == "" {
		return model.Verdict{}, errors.New("empty response")
	}

	var j judgment
	if err := json.Unmarshal([]byte(payload), &j); err != nil {
		return model.Verdict{}, fmt.Errorf("invalid JSON: %w", err)
	}

	if err := v.Struct(j); err != nil {
		return model.Verdict{}, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	status, _ := model.ParseStatus(j.Status)

	verdict := model.Verdict{
		Status:     status,
		Confidence: clamp(float64(*j.Confidence)),
		Sources:    []string(j.Sources),
	}
	if j.Explanation != nil {
		verdict.Explanation = strings.TrimSpace(*j.Explanation)
	}
	if j.CorrectInformation != nil {
		verdict.CorrectInformation = strings.TrimSpace(*j.CorrectInformation)
	}
	if verdict.Sources == nil {
		verdict.Sources = []string{}
	}

	return verdict, nil
}

func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
