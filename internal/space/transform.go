package space

import "github.com/go-gl/mathgl/mgl64"

// Transform is a rigid transform: rotate, then translate.
type Transform struct {
	Rot   mgl64.Quat
	Trans mgl64.Vec3
}

func IdentityTransform() Transform {
	return Transform{Rot: mgl64.QuatIdent()}
}

// Apply maps a position.
func (t Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return t.Rot.Rotate(p).Add(t.Trans)
}

// ApplyDir maps a direction or velocity; translation does not apply.
func (t Transform) ApplyDir(v mgl64.Vec3) mgl64.Vec3 {
	return t.Rot.Rotate(v)
}

// Compose returns the transform that applies u first, then t.
func (t Transform) Compose(u Transform) Transform {
	return Transform{
		Rot:   t.Rot.Mul(u.Rot).Normalize(),
		Trans: t.Rot.Rotate(u.Trans).Add(t.Trans),
	}
}

// Inverse uses the rigid form Rᵀ, −Rᵀt.
func (t Transform) Inverse() Transform {
	inv := t.Rot.Conjugate()
	return Transform{Rot: inv, Trans: inv.Rotate(t.Trans).Mul(-1)}
}

func (t Transform) Mat4() mgl64.Mat4 {
	return mgl64.Translate3D(t.Trans.X(), t.Trans.Y(), t.Trans.Z()).Mul4(t.Rot.Mat4())
}
