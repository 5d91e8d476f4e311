package math

import (
	"encoding/binary"
	"math"
	"testing"
)

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func matNear(a, b Mat4, eps float32) bool {
	for i := range a {
		if abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())
	if result != m {
		t.Errorf("M * I should equal M, got %v", result)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformVec3(t *testing.T) {
	got := Translate(10, 20, 30).TransformVec3(Vec3{1, 2, 3})
	if got != (Vec3{11, 22, 33}) {
		t.Errorf("TransformVec3: got %v, want (11, 22, 33)", got)
	}
}

func TestQuatFromEulerXYZSingleAxis(t *testing.T) {
	// Y-only Euler angle equals an axis-angle rotation about Y.
	q := QuatFromEulerXYZ(0, float32(math.Pi/2), 0)
	p := q.ToMat4().TransformVec3(Vec3{1, 0, 0})
	if abs(p.X) > 0.001 || abs(p.Y) > 0.001 || abs(p.Z+1) > 0.001 {
		t.Errorf("Euler Y 90: got %v, want (0, 0, -1)", p)
	}
}

func TestQuatFromEulerXYZOrder(t *testing.T) {
	x, y, z := float32(0.3), float32(-0.7), float32(1.1)
	q := QuatFromEulerXYZ(x, y, z).ToMat4()
	rx := QuatFromAxisAngle(Vec3{X: 1}, x).ToMat4()
	ry := QuatFromAxisAngle(Vec3{Y: 1}, y).ToMat4()
	rz := QuatFromAxisAngle(Vec3{Z: 1}, z).ToMat4()
	want := rx.Mul(ry).Mul(rz)
	if !matNear(q, want, 1e-5) {
		t.Errorf("QuatFromEulerXYZ should equal Rx*Ry*Rz\n got %v\nwant %v", q, want)
	}
}

func TestFromScaleRotationTranslation(t *testing.T) {
	s := Vec3{2, 3, 4}
	r := QuatFromEulerXYZ(0.2, 0.4, 0.6)
	tr := Vec3{5, -1, 7}

	got := FromScaleRotationTranslation(s, r, tr)
	want := Translate(tr.X, tr.Y, tr.Z).Mul(r.ToMat4()).Mul(Scale(s.X, s.Y, s.Z))
	if !matNear(got, want, 1e-5) {
		t.Errorf("FromScaleRotationTranslation mismatch\n got %v\nwant %v", got, want)
	}
}

func TestInverse(t *testing.T) {
	m := FromRotationTranslation(QuatFromEulerXYZ(0.5, 1.0, -0.25), Vec3{1, 2, 3})
	if !matNear(m.Mul(m.Inverse()), Identity(), 1e-5) {
		t.Error("M * M^-1 should be identity")
	}
}

func TestInverseSingular(t *testing.T) {
	if (Mat4{}).Inverse() != Identity() {
		t.Error("inverse of a singular matrix should fall back to identity")
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1, 0.1, 100)
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestOrtho(t *testing.T) {
	m := Ortho(-2, 2, -1, 1, 0.01, 50)
	p := m.TransformVec3(Vec3{2, 1, -0.01})
	if abs(p.X-1) > 1e-5 || abs(p.Y-1) > 1e-5 || abs(p.Z+1) > 1e-4 {
		t.Errorf("Ortho corner: got %v, want (1, 1, -1)", p)
	}
}

func TestMat4Bytes(t *testing.T) {
	m := Translate(1, 2, 3)
	b := m.Bytes()
	if len(b) != 64 {
		t.Fatalf("expected 64 bytes, got %d", len(b))
	}
	for i := 0; i < 16; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		if got != m[i] {
			t.Errorf("element %d: got %f, want %f", i, got, m[i])
		}
	}
}

func TestVec3Cross(t *testing.T) {
	got := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	if got != (Vec3{0, 0, 1}) {
		t.Errorf("Vec3.Cross() = %v, want (0, 0, 1)", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
	l := Vec3{3, 4, 12}.Normalize().Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Normalize().Length() = %v, want ~1", l)
	}
}
