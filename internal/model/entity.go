package model

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

type Profile struct {
	ID       int      `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Avatar   string   `json:"avatar"`
	Category Category `json:"category"`
}

func ProfileOf(u *User) Profile {
	return Profile{ID: u.ID, Email: u.Email, Name: u.Name, Avatar: u.Avatar, Category: u.Category}
}

type CreateUserRequest struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=6"`
	Name     string   `json:"name" binding:"required"`
	Category Category `json:"category"`
	Avatar   string   `json:"avatar"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

type PushTokenRequest struct {
	Token string `json:"token"`
}

type FlagRequest struct {
	Note string `json:"note"`
}

type NotificationRequest struct {
	Title    string   `json:"title" binding:"required"`
	Message  string   `json:"message" binding:"required"`
	Audience Audience `json:"audience" binding:"required"`
	Target   string   `json:"target"`
}
