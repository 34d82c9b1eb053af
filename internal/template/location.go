package template

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/commonsbots/geograph-sync/internal/model"
)

const (
	cameraTemplate = "Location dec"
	objectTemplate = "Object location dec"
)

// ParseLocation decodes the camera {{Location dec}} template. A page with no
// such template yields (nil, nil); a structurally broken or duplicated
// template is an error.
func ParseLocation(text string) (*model.Location, error) {
	return parseLocation(text, cameraTemplate)
}

// ParseObjectLocation decodes the {{Object location dec}} template.
func ParseObjectLocation(text string) (*model.Location, error) {
	return parseLocation(text, objectTemplate)
}

func parseLocation(text, name string) (*model.Location, error) {
	spans := findTemplates(text, name)
	switch len(spans) {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, eris.Wrapf(ErrBadTemplate, "found %d %s templates", len(spans), name)
	}

	s := spans[0]
	fields := strings.Split(text[s.start+2:s.end-2], "|")

	loc := &model.Location{Precision: 1000}
	pos := 0
	for _, f := range fields[1:] {
		f = strings.TrimSpace(f)
		if key, val, ok := strings.Cut(f, "="); ok {
			if strings.TrimSpace(key) == "prec" {
				prec, err := strconv.Atoi(strings.TrimSpace(val))
				if err != nil || prec <= 0 {
					return nil, eris.Wrapf(ErrBadTemplate, "%s: bad prec %q", name, val)
				}
				loc.Precision = prec
			}
			continue
		}

		pos++
		switch pos {
		case 1, 2:
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, eris.Wrapf(ErrBadTemplate, "%s: bad coordinate %q", name, f)
			}
			if pos == 1 {
				loc.Lat = v
			} else {
				loc.Lon = v
			}
		case 3:
			if err := parseAttrs(f, loc); err != nil {
				return nil, eris.Wrapf(err, "%s", name)
			}
		default:
			loc.Extra = true
		}
	}
	if pos < 2 {
		return nil, eris.Wrapf(ErrBadTemplate, "%s: missing coordinates", name)
	}
	return loc, nil
}

// parseAttrs decodes the underscore-joined attribute field, e.g.
// "source:geograph-osgb36(SU387148)_heading:247".
func parseAttrs(attrs string, loc *model.Location) error {
	for _, part := range strings.Split(attrs, "_") {
		key, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		switch key {
		case "source":
			loc.Source = val
		case "region":
			loc.Region = val
		case "heading":
			h, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return eris.Wrapf(ErrBadTemplate, "bad heading %q", val)
			}
			loc.Heading = &h
		}
	}
	return nil
}

// SetLocation replaces, inserts or removes the camera location template and
// returns the new text. A nil location removes any existing template.
func SetLocation(text string, loc *model.Location) string {
	return setLocation(text, cameraTemplate, loc)
}

// SetObjectLocation replaces, inserts or removes the object location template.
func SetObjectLocation(text string, loc *model.Location) string {
	return setLocation(text, objectTemplate, loc)
}

func setLocation(text, name string, loc *model.Location) string {
	spans := findTemplates(text, name)

	if loc == nil {
		if len(spans) == 0 {
			return text
		}
		s := spans[0]
		end := s.end
		if end < len(text) && text[end] == '\n' {
			end++
		}
		return text[:s.start] + text[end:]
	}

	rendered := Render(name, loc)
	if len(spans) > 0 {
		s := spans[0]
		return text[:s.start] + rendered + text[s.end:]
	}
	// The camera template conventionally precedes the object one; a new
	// object template goes below an existing camera template.
	if name == objectTemplate {
		if camSpans := findTemplates(text, cameraTemplate); len(camSpans) > 0 {
			end := camSpans[0].end
			return text[:end] + "\n" + rendered + text[end:]
		}
	}
	return insertAfterInformation(text, rendered)
}

// Render formats a location record as template wikitext.
func Render(name string, loc *model.Location) string {
	var attrs strings.Builder
	attrs.WriteString("source:")
	attrs.WriteString(loc.Source)
	if loc.Region != "" {
		attrs.WriteString("_region:")
		attrs.WriteString(loc.Region)
	}
	if loc.Heading != nil {
		fmt.Fprintf(&attrs, "_heading:%s", strconv.FormatFloat(*loc.Heading, 'f', -1, 64))
	}
	return fmt.Sprintf("{{%s|%s|%s|%s|prec=%d}}",
		name,
		strconv.FormatFloat(loc.Lat, 'f', -1, 64),
		strconv.FormatFloat(loc.Lon, 'f', -1, 64),
		attrs.String(),
		loc.Precision)
}

// insertAfterInformation places new template text on its own line after the
// {{Information}} block, or at the top of the page when there is none.
func insertAfterInformation(text, rendered string) string {
	if spans := findTemplates(text, "Information"); len(spans) > 0 {
		end := spans[0].end
		return text[:end] + "\n" + rendered + text[end:]
	}
	return rendered + "\n" + text
}
