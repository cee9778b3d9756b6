package request

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

type CreatePostRequest struct {
	Content string `json:"content"`
}

func (req *CreatePostRequest) Validate() error {
	req.Content = strings.TrimSpace(req.Content)
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Content, validation.Required, validation.RuneLength(1, 500)),
	)
}

type ListPostsQuery struct {
	Before uint `form:"before"`
	Limit  int  `form:"limit"`
}

func (q *ListPostsQuery) Validate() error {
	return validation.ValidateStruct(
		q,
		validation.Field(&q.Limit, validation.Min(0), validation.Max(50)),
	)
}
