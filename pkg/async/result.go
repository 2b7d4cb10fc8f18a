package async

// Result carries a value or the error that prevented producing it,
// letting channels transport both.
type Result[T any] struct {
	Value T
	Err   error
}

func NewResult[T any](value T, errs ...error) Result[T] {
	var err error
	if len(errs) > 0 {
		err = errs[0]
	}
	return Result[T]{Value: value, Err: err}
}

func (r Result[T]) Unpack() (T, error) {
	return r.Value, r.Err
}

// UnpackAll collects the values of results, or the first error found.
func UnpackAll[T any](results []Result[T]) ([]T, error) {
	values := make([]T, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			return nil, r.Err
		}
		values = append(values, r.Value)
	}
	return values, nil
}
