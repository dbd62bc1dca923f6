// Package privacy provides the types and interfaces for the Privacy card issuing API.
//
// A client is created through the privacyclient package:
//
//	client, err := privacyclient.New(&privacy.Config{
//		APIKey:      os.Getenv("PRIVACY_API_KEY"),
//		Environment: privacy.EnvironmentSandbox,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// List operations return an *Iterator that fetches pages lazily:
//
//	cards := client.Cards().List(ctx, &privacy.CardListParams{PageSize: 50})
//	for card, err := range cards.Seq() {
//		if err != nil {
//			return err
//		}
//		fmt.Println(card.Token, card.Memo)
//	}
//
// Cards returned by a client are bound to it, so transactions and updates can
// be issued directly from the card value:
//
//	txns := card.Transactions(ctx, &privacy.CardTransactionParams{
//		Status: privacy.ApprovalStatusDeclines,
//	})
//	updated, err := card.Update(ctx, &privacy.CardUpdateRequest{State: privacy.CardStatePaused})
//
// Every failure is returned as an *Error carrying an ErrorKind. Use errors.Is
// with the sentinel values (ErrNotFound, ErrRateLimited, ...) or KindOf to
// branch on it.
package privacy
