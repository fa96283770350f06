package service

import (
	"github.com/rajkumar/portfolio-site/internal/config"
	"github.com/rajkumar/portfolio-site/internal/repository"
)

type Services struct {
	Auth *AuthService
	Blog *BlogService
	Tag  *TagService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth: NewAuthService(repos.User, cfg),
		Blog: NewBlogService(repos.Blog, repos.Tag),
		Tag:  NewTagService(repos.Tag),
	}
}
