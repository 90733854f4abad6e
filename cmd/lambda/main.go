package main

import (
	"log"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/Lovetts-Solicitors/banked-go/internal/banked"
	"github.com/Lovetts-Solicitors/banked-go/internal/handler"
)

func main() {
	client, err := banked.NewClientFromEnv(nil)
	if err != nil {
		log.Fatalf("failed to configure banked client: %v", err)
	}

	var opts []handler.Option
	if callbackURL := strings.TrimSpace(os.Getenv("CHECKOUT_CALLBACK_URL")); callbackURL != "" {
		callbackSecret := os.Getenv("CHECKOUT_CALLBACK_SECRET")
		callbackSender, err := handler.NewHTTPSCallbackSender(callbackURL, callbackSecret, nil)
		if err != nil {
			log.Fatalf("failed to configure callback sender: %v", err)
		}
		opts = append(opts, handler.WithCallbackSender(callbackSender))
	}

	processor := handler.NewProcessor(client, opts...)

	lambda.Start(processor.Handle)
}
