package storage

// Union2 holds at most one of A or B.
type Union2[A, B any] struct {
	a   A
	b   B
	occ occupancy
}

// Create0 returns a union holding alternative 0.
func Create0[A, B any](v A) Union2[A, B] {
	var u Union2[A, B]
	u.Put0(v)
	return u
}

// Create1 returns a union holding alternative 1.
func Create1[A, B any](v B) Union2[A, B] {
	var u Union2[A, B]
	u.Put1(v)
	return u
}

// Len is the number of alternatives.
func (u *Union2[A, B]) Len() int { return 2 }

func (u *Union2[A, B]) Put0(v A) {
	u.occ.put()
	u.a = v
}

func (u *Union2[A, B]) Put1(v B) {
	u.occ.put()
	u.b = v
}

// Get0 aliases alternative 0. Valid only if alternative 0 was the last Put.
func (u *Union2[A, B]) Get0() *A {
	u.occ.check()
	return &u.a
}

// Get1 aliases alternative 1. Valid only if alternative 1 was the last Put.
func (u *Union2[A, B]) Get1() *B {
	u.occ.check()
	return &u.b
}

func (u *Union2[A, B]) Take0() A {
	u.occ.take()
	v := u.a
	var zero A
	u.a = zero
	return v
}

func (u *Union2[A, B]) Take1() B {
	u.occ.take()
	v := u.b
	var zero B
	u.b = zero
	return v
}

// Move transfers the contents out, leaving u empty.
func (u *Union2[A, B]) Move() Union2[A, B] {
	out := Union2[A, B]{a: u.a, b: u.b}
	out.occ.moveFrom(&u.occ)
	var zeroA A
	var zeroB B
	u.a, u.b = zeroA, zeroB
	return out
}

// Occupied reports the debug occupancy bit; always false in regular builds.
func (u *Union2[A, B]) Occupied() bool { return u.occ.occupied() }

// Release asserts the union is empty. Call it where the union goes out of use.
func (u *Union2[A, B]) Release() { u.occ.release() }
