package math3d

// Mat3 is a 3x3 matrix in column-major order; element (row, col) is at
// index row+col*3.
type Mat3 [9]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Determinant returns the determinant.
func (m Mat3) Determinant() float64 {
	c0 := V3(m[0], m[1], m[2])
	c1 := V3(m[3], m[4], m[5])
	c2 := V3(m[6], m[7], m[8])
	return c0.Dot(c1.Cross(c2))
}

// Inverse returns the inverse and true, or the zero matrix and false when
// m is singular.
func (m Mat3) Inverse() (Mat3, bool) {
	c0 := V3(m[0], m[1], m[2])
	c1 := V3(m[3], m[4], m[5])
	c2 := V3(m[6], m[7], m[8])

	// Rows of the inverse are the cross products of column pairs.
	r0 := c1.Cross(c2)
	r1 := c2.Cross(c0)
	r2 := c0.Cross(c1)

	det := c0.Dot(r0)
	if det == 0 {
		return Mat3{}, false
	}
	inv := 1 / det

	return Mat3{
		r0.X * inv, r1.X * inv, r2.X * inv,
		r0.Y * inv, r1.Y * inv, r2.Y * inv,
		r0.Z * inv, r1.Z * inv, r2.Z * inv,
	}, true
}

// Mul returns the matrix product a·b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat3) Mul(b Mat3) Mat3 {
	var m Mat3
	for col := range 3 {
		for row := range 3 {
			m[row+col*3] = a[row]*b[col*3] + a[row+3]*b[col*3+1] + a[row+6]*b[col*3+2]
		}
	}
	return m
}

// MulVec3 transforms v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// NormalMatrix returns the matrix that carries object-space normals into
// world space for the given model transform: the inverse of the transposed
// upper 3x3 block. A singular model matrix yields the identity.
func NormalMatrix(model Mat4) Mat3 {
	inv, ok := model.Mat3().Transpose().Inverse()
	if !ok {
		return Identity3()
	}
	return inv
}
