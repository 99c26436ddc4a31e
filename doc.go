// Package epost provides a Go client for the E-POST API, which delivers
// letters electronically or prints and posts them ("hybrid" letters).
//
// Basic usage:
//
//	client, err := epost.New(epost.WithTestEnvironment(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	token, err := client.AccessToken(ctx, epost.Credentials{
//	    VendorID: "vendor", EKP: "1234567890", Secret: "secret", Password: "password",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	recipient := epost.NewRecipient()
//	recipient.SetAddressLine(0, "Erika Mustermann")
//	recipient.SetAddressLine(1, "Heidestraße 17")
//	recipient.SetZipCode("51147")
//	recipient.SetCity("Köln")
//
//	envelope := epost.NewEnvelope(epost.LetterTypeHybrid)
//	if err := envelope.AddRecipientPrinted(recipient); err != nil {
//	    log.Fatal(err)
//	}
//
//	letter := client.NewLetter().
//	    SetAccessToken(token).
//	    SetEnvelope(envelope).
//	    SetDeliveryOptions(epost.NewDeliveryOptions().SetColorColored().SetRegisteredStandard())
//	if err := letter.SetAttachmentFile("invoice.pdf"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := letter.Submit(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	status, err := letter.Status(ctx, "")
//
// Local mistakes such as a missing attachment are reported before any
// request is made, as *ValidationError, *PreconditionError or
// *FileFormatError. Every error answer of the API is an *APIError; match it
// with errors.Is(err, ErrRemote) or ErrUnauthorized.
package epost
