/*
Package launchpadsdk is a Go client for the launchpad API.

# SDKClient vs Session

SDKClient covers the public endpoints (registration, login, health) and
creates Sessions. A Session carries an access token and covers everything
else:

	client := launchpadsdk.NewSDKClient("https://launchpad.example.com")

	_, err := client.Register(ctx, launchpadsdk.RegisterRequest{
		Email:    "olive@example.com",
		Password: "correct horse battery",
		Role:     "STARTUP",
	})

	session, err := client.Login(ctx, "olive@example.com", "correct horse battery")
	startup, err := session.CreateStartup(ctx, launchpadsdk.StartupRequest{Name: "Acme"})

# Invites

Owners issue invite links; the response holds the only copy of the URL:

	issued, err := session.IssueInvite(ctx, startup.ID, launchpadsdk.InviteRequest{Type: "MENTOR"})
	token := launchpadsdk.TokenFromURL(issued.URL)

The invitee checks and accepts it with their own session:

	view, err := mentor.ValidateInvite(ctx, token)
	accepted, err := mentor.AcceptInvite(ctx, token)

# Errors

Failed calls return *APIError. Match on its Code:

	if launchpadsdk.IsCode(err, launchpadsdk.ErrorCodeAlreadyUsed) {
		// the link was already accepted
	}
*/
package launchpadsdk
