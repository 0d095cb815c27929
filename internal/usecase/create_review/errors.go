package create_review

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("create_review: booking not found")

	// ErrNotEligible возвращается, когда бронирование не завершено или отзыв оставляет не искатель
	ErrNotEligible = errors.New("create_review: only the seeker of a completed booking may leave a review")

	// ErrReviewExists возвращается при повторном отзыве на то же бронирование
	ErrReviewExists = errors.New("create_review: booking already has a review")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_review: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_review: internal error")
)
