// Package host defines the capability a 3D host exposes to move its camera
// to a BCF viewpoint. No concrete host is implemented here.
package host

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bcfview/bcfview/internal/bcf"
)

// ErrNoCamera is returned by Apply for a viewpoint without a camera.
var ErrNoCamera = errors.New("host: viewpoint has no camera")

// ErrUnknownUnit is returned by UnitScale for an unsupported unit name.
var ErrUnknownUnit = errors.New("host: unknown unit")

// CameraMove is a camera flattened for a host. Coordinates are in meters.
type CameraMove struct {
	Kind             bcf.CameraKind `json:"kind"`
	ViewPoint        [3]float64     `json:"view_point"`
	Direction        [3]float64     `json:"direction"`
	UpVector         [3]float64     `json:"up_vector"`
	FieldOfView      float64        `json:"field_of_view,omitempty"`
	ViewToWorldScale float64        `json:"view_to_world_scale,omitempty"`
	// Components are the IFC GUIDs to select after the move.
	Components []string `json:"components,omitempty"`
}

// Scaled returns the move with positions multiplied by factor. Directions
// are unit vectors and are left alone.
func (m CameraMove) Scaled(factor float64) CameraMove {
	out := m
	for i := range out.ViewPoint {
		out.ViewPoint[i] *= factor
	}
	if out.Kind == bcf.CameraOrthogonal {
		out.ViewToWorldScale *= factor
	}
	out.Components = append([]string(nil), m.Components...)
	return out
}

// Mover moves a host camera.
type Mover interface {
	MoveCamera(ctx context.Context, move CameraMove) error
}

// MoverFunc adapts a function to Mover.
type MoverFunc func(ctx context.Context, move CameraMove) error

func (f MoverFunc) MoveCamera(ctx context.Context, move CameraMove) error {
	return f(ctx, move)
}

// FromVisualization flattens the camera of vi. It reports false when vi is
// nil or has no camera.
func FromVisualization(vi *bcf.VisualizationInfo) (CameraMove, bool) {
	if !vi.CameraDefined() {
		return CameraMove{}, false
	}
	c := vi.Camera
	move := CameraMove{
		Kind:       c.Kind,
		ViewPoint:  [3]float64{c.ViewPoint.X, c.ViewPoint.Y, c.ViewPoint.Z},
		Direction:  [3]float64{c.Direction.X, c.Direction.Y, c.Direction.Z},
		UpVector:   [3]float64{c.UpVector.X, c.UpVector.Y, c.UpVector.Z},
		Components: append([]string(nil), vi.Selection...),
	}
	switch c.Kind {
	case bcf.CameraPerspective:
		move.FieldOfView = c.FieldOfView
	case bcf.CameraOrthogonal:
		move.ViewToWorldScale = c.ViewToWorldScale
	}
	return move, true
}

// Apply sends the camera of vi to m.
func Apply(ctx context.Context, m Mover, vi *bcf.VisualizationInfo) error {
	move, ok := FromVisualization(vi)
	if !ok {
		return ErrNoCamera
	}
	if err := m.MoveCamera(ctx, move); err != nil {
		return fmt.Errorf("move camera: %w", err)
	}
	return nil
}

var unitScales = map[string]float64{
	"mm":          0.001,
	"millimeter":  0.001,
	"millimeters": 0.001,
	"cm":          0.01,
	"centimeter":  0.01,
	"centimeters": 0.01,
	"m":           1,
	"meter":       1,
	"meters":      1,
	"in":          0.0254,
	"inch":        0.0254,
	"inches":      0.0254,
	"ft":          0.3048,
	"foot":        0.3048,
	"feet":        0.3048,
}

// UnitScale returns the length of one host unit in meters. Divide BCF
// coordinates by it to get host coordinates.
func UnitScale(unit string) (float64, error) {
	s, ok := unitScales[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return s, nil
}

// ToHostUnits converts a move from meters to unit.
func ToHostUnits(move CameraMove, unit string) (CameraMove, error) {
	s, err := UnitScale(unit)
	if err != nil {
		return CameraMove{}, err
	}
	return move.Scaled(1 / s), nil
}
