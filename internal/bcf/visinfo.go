package bcf

import (
	"fmt"
)

// CameraKind distinguishes the camera variants of a visualization.
type CameraKind int

const (
	CameraNone CameraKind = iota
	CameraPerspective
	CameraOrthogonal
)

func (k CameraKind) String() string {
	switch k {
	case CameraPerspective:
		return "perspective"
	case CameraOrthogonal:
		return "orthogonal"
	default:
		return "none"
	}
}

// Point is a location in meters.
type Point struct {
	X, Y, Z float64
}

// Direction is a 3D vector.
type Direction struct {
	X, Y, Z float64
}

// Camera is either a perspective or an orthogonal camera. The zero value is
// "no camera".
type Camera struct {
	Kind      CameraKind
	ViewPoint Point
	Direction Direction
	UpVector  Direction
	// FieldOfView is the vertical field of view in degrees. Perspective only.
	FieldOfView float64
	// ViewToWorldScale is the view to world scale. Orthogonal only.
	ViewToWorldScale float64
}

// NewPerspectiveCamera builds a perspective camera.
func NewPerspectiveCamera(vp Point, dir, up Direction, fieldOfView float64) Camera {
	return Camera{
		Kind:        CameraPerspective,
		ViewPoint:   vp,
		Direction:   dir,
		UpVector:    up,
		FieldOfView: fieldOfView,
	}
}

// NewOrthogonalCamera builds an orthogonal camera.
func NewOrthogonalCamera(vp Point, dir, up Direction, viewToWorldScale float64) Camera {
	return Camera{
		Kind:             CameraOrthogonal,
		ViewPoint:        vp,
		Direction:        dir,
		UpVector:         up,
		ViewToWorldScale: viewToWorldScale,
	}
}

// VisualizationInfo is the content of a .bcfv file.
type VisualizationInfo struct {
	GUID   string
	Camera Camera
	// Selection lists the IFC GUIDs of the selected components.
	Selection  []string
	Visibility *Visibility
	Coloring   []ColorGroup

	Lines          []Line
	ClippingPlanes []ClippingPlane
	Bitmaps        []Bitmap
}

// Visibility holds the default visibility and its exceptions.
type Visibility struct {
	DefaultVisibility bool
	Exceptions        []string
}

// ColorGroup assigns a color to a set of components.
type ColorGroup struct {
	Color      string
	Components []string
}

// Line is a 3D markup line.
type Line struct {
	Start Point
	End   Point
}

// ClippingPlane limits the visible part of the model.
type ClippingPlane struct {
	Location  Point
	Direction Direction
}

// Bitmap is an image placed in the 3D view.
type Bitmap struct {
	Format    string
	Reference string
	Location  Point
	Normal    Direction
	Up        Direction
	Height    float64
}

// CameraDefined reports whether any camera is defined.
func (v *VisualizationInfo) CameraDefined() bool {
	return v != nil && v.Camera.Kind != CameraNone
}

// PerspectiveDefined reports whether a perspective camera is defined.
func (v *VisualizationInfo) PerspectiveDefined() bool {
	return v != nil && v.Camera.Kind == CameraPerspective
}

// OrthogonalDefined reports whether an orthogonal camera is defined.
func (v *VisualizationInfo) OrthogonalDefined() bool {
	return v != nil && v.Camera.Kind == CameraOrthogonal
}

// CameraText returns a human readable summary of the camera.
func (v *VisualizationInfo) CameraText() string {
	if !v.CameraDefined() {
		return "No Camera"
	}
	c := v.Camera
	txt := fmt.Sprintf("Pos. :\t%.3f,\t%.3f,\t%.3f (meters)\n", c.ViewPoint.X, c.ViewPoint.Y, c.ViewPoint.Z) +
		fmt.Sprintf("Dir. :\t%.3f,\t%.3f,\t%.3f\n", c.Direction.X, c.Direction.Y, c.Direction.Z) +
		fmt.Sprintf("Up :\t%.3f,\t%.3f,\t%.3f\n", c.UpVector.X, c.UpVector.Y, c.UpVector.Z)
	if c.Kind == CameraOrthogonal {
		return txt + fmt.Sprintf("Scale :\t%.1f", c.ViewToWorldScale)
	}
	return txt + fmt.Sprintf("Field :\t%.1f°", c.FieldOfView)
}
