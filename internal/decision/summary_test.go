package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commonsbots/geograph-sync/internal/model"
)

const descriptor = "geograph.org.uk 1234567 by Jane Smith"

func TestSynthesizeCombinations(t *testing.T) {
	camMove := "moved 36.2 m NNE"
	objMove := "moved 120.0 m W"

	tests := []struct {
		name   string
		cam    model.Decision
		obj    model.Decision
		want   string
	}{
		{
			"add both", model.DecisionAdd, model.DecisionAdd,
			"Add camera and object locations from Geograph (" + descriptor + ")",
		},
		{
			"add camera update object", model.DecisionAdd, model.DecisionUpdate,
			"Add camera location and update object location (" + objMove + "), both from Geograph (" + descriptor + ")",
		},
		{
			"add camera remove object", model.DecisionAdd, model.DecisionRemove,
			"Add camera location from Geograph (" + descriptor + ") and remove Geograph-derived 1km-precision object location",
		},
		{
			"add camera only", model.DecisionAdd, model.DecisionNone,
			"Add camera location from Geograph (" + descriptor + ")",
		},
		{
			"update camera add object", model.DecisionUpdate, model.DecisionAdd,
			"Update camera location (" + camMove + ") and add object location, both from Geograph (" + descriptor + ")",
		},
		{
			"update both", model.DecisionUpdate, model.DecisionUpdate,
			"Update camera and object locations (" + camMove + " and " + objMove + ", respectively) from Geograph (" + descriptor + ")",
		},
		{
			"update camera remove object", model.DecisionUpdate, model.DecisionRemove,
			"Update camera location (" + camMove + ") from Geograph (" + descriptor + ") and remove Geograph-derived 1km-precision object location",
		},
		{
			"update camera only", model.DecisionUpdate, model.DecisionNone,
			"Update camera location (" + camMove + ") from Geograph (" + descriptor + ")",
		},
		{
			"remove camera add object", model.DecisionRemove, model.DecisionAdd,
			"Remove Geograph-derived camera location (no longer on Geograph, or 1km precision) and add object location from Geograph (" + descriptor + ")",
		},
		{
			"remove camera update object", model.DecisionRemove, model.DecisionUpdate,
			"Remove Geograph-derived camera location (no longer on Geograph, or 1km precision) and update object location (" + objMove + ") from Geograph (" + descriptor + ")",
		},
		{
			"remove camera only", model.DecisionRemove, model.DecisionNone,
			"Remove Geograph-derived camera location (no longer on Geograph, or 1km precision)",
		},
		{
			"add object only", model.DecisionNone, model.DecisionAdd,
			"Add object location from Geograph (" + descriptor + ")",
		},
		{
			"update object only", model.DecisionNone, model.DecisionUpdate,
			"Update object location (" + objMove + ") from Geograph (" + descriptor + ")",
		},
		{
			"remove object only", model.DecisionNone, model.DecisionRemove,
			"Remove Geograph-derived 1km-precision object location",
		},
		{
			"nothing", model.DecisionNone, model.DecisionNone,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Synthesize(SummaryInput{
				Camera:     tt.cam,
				Object:     tt.obj,
				CameraMove: camMove,
				ObjectMove: objMove,
				Descriptor: descriptor,
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSynthesizeCreditLine(t *testing.T) {
	// Standalone when no location change.
	got := Synthesize(SummaryInput{CreditLine: true})
	assert.Equal(t, "Add credit line with title from Geograph", got)

	// Joined with "; " when a base summary exists.
	got = Synthesize(SummaryInput{
		Camera:     model.DecisionAdd,
		Descriptor: descriptor,
		CreditLine: true,
	})
	assert.Equal(t,
		"Add camera location from Geograph ("+descriptor+"); add credit line with title from Geograph",
		got)
}

func TestSynthesizeAttribution(t *testing.T) {
	got := Synthesize(SummaryInput{
		Camera:      model.DecisionAdd,
		Descriptor:  descriptor,
		Attribution: true,
	})
	assert.Equal(t,
		"Add camera location from Geograph ("+descriptor+")"+
			" [powered by MapIt: http://global.mapit.mysociety.org]",
		got)

	// Appended even when nothing else changed.
	got = Synthesize(SummaryInput{Attribution: true})
	assert.Equal(t, " [powered by MapIt: http://global.mapit.mysociety.org]", got)
}

func TestSynthesizeDeterministic(t *testing.T) {
	in := SummaryInput{
		Camera:     model.DecisionUpdate,
		Object:     model.DecisionUpdate,
		CameraMove: "moved 1.0 m N",
		ObjectMove: "moved 2.0 m S",
		Descriptor: descriptor,
		CreditLine: true,
	}
	first := Synthesize(in)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Synthesize(in))
	}
}
