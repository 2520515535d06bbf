package auth

// Identity is the decoded content of a session credential: the profile
// details resolved from Discord at login time, plus the role flag that gates
// access to member-only features. HasRole is fixed when the credential is
// issued and is not re-verified on subsequent requests: it stays trusted for
// as long as the credential remains valid.
type Identity struct {
	Id       string  `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
	HasRole  bool    `json:"hasRole"`
}

// DiscordUser is the subset of the Discord /users/@me profile payload that
// gets embedded into a session credential
type DiscordUser struct {
	Id       string  `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}
