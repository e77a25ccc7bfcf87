package pulse

// Pair is the fixed-arity product the pairwise combinators emit. N-ary
// composition folds pairs instead of growing variadic type parameters.
type Pair[A, B any] struct {
	First  A
	Second B
}

func PairOf[A, B any](a A, b B) Pair[A, B] {
	return Pair[A, B]{First: a, Second: b}
}

// Maybe is an optional value. Either emits a pair of these.
type Maybe[T any] struct {
	Value T
	Valid bool
}

func Some[T any](v T) Maybe[T] {
	return Maybe[T]{Value: v, Valid: true}
}

func None[T any]() Maybe[T] {
	return Maybe[T]{}
}

// Side tags which input of a two-variant union produced a value.
type Side uint8

const (
	SideLeft Side = iota
	SideRight
)

// Union is a tagged two-variant value: exactly one of Left or Right is
// meaningful, per Side.
type Union[A, B any] struct {
	Side  Side
	Left  A
	Right B
}

func LeftOf[A, B any](v A) Union[A, B] {
	return Union[A, B]{Side: SideLeft, Left: v}
}

func RightOf[A, B any](v B) Union[A, B] {
	return Union[A, B]{Side: SideRight, Right: v}
}

// Sourced pairs a pulse with the source handle of the channel it came
// from. Concat emits these so receivers can tell origins apart.
type Sourced[S, P any] struct {
	Source S
	Pulse  P
}
