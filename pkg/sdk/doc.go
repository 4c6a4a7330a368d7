// Package chatdb is an embeddable client for the ChatDB flight query pipeline:
// natural-language questions are translated into validated structured queries
// and run against the MongoDB flight store.
//
// # Natural-language API
//
//	client, _ := chatdb.New(ctx,
//	    chatdb.WithMongo("mongodb://localhost:27017", "flights"),
//	    chatdb.WithOllama("http://localhost:11434/v1", "llama3"),
//	)
//	defer client.Close(ctx)
//
//	ans, _ := client.Ask(ctx, "cheapest 5 flights from LAX to JFK")
//	for _, r := range ans.Records {
//	    fmt.Println(r["originalId"], r["totalFare"])
//	}
//
// Without a completion endpoint every question goes to the keyword parser,
// so Ask and Translate keep working offline.
//
// # Direct lookups
//
//	flight, _ := client.Flight(ctx, "c1d5e3f0...")
//	hotels, _ := client.Hotels(ctx, chatdb.HotelFilter{State: "CA", MinRating: 4})
package chatdb
