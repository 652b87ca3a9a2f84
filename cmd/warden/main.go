package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"log"
	"math/big"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/layer-3/warden/adapters/events"
	"github.com/layer-3/warden/adapters/mailer"
	"github.com/layer-3/warden/adapters/store"
	"github.com/layer-3/warden/adapters/tokenizer"
	"github.com/layer-3/warden/ports"
	"github.com/layer-3/warden/service"
	"github.com/layer-3/warden/transport/http"
	"github.com/redis/go-redis/v9"
)

func main() {
	signKey, err := loadSignKey()
	if err != nil {
		log.Fatalf("Failed to load signing key: %v", err)
	}

	logger := watermill.NewStdLogger(false, false)

	var (
		bannedStore    ports.BannedTokenStore
		challengeStore ports.ChallengeStore
		publisher      message.Publisher
		mail           ports.Mailer
	)

	// Redis backs the revocation set, the challenge store, and the event
	// stream when available; otherwise everything stays in process.
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)

		publisher, err = redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client: redisClient,
			},
			logger,
		)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}

		bannedStore = store.NewRedisBannedTokenStore(redisClient, tokenizer.DefaultSessionTTL)
		challengeStore = store.NewRedisChallengeStore(redisClient, tokenizer.DefaultSessionTTL)
		mail = mailer.NewQueueMailer(publisher)
	} else {
		publisher = gochannel.NewGoChannel(gochannel.Config{}, logger)
		bannedStore = store.NewMemoryBannedTokenStore()
		challengeStore = store.NewMemoryChallengeStore()
		mail = mailer.NewLogMailer()
	}

	userStore := store.NewMemoryUserStore()
	codec := tokenizer.NewJWTTokenizer(signKey, bannedStore, tokenizer.DefaultSessionTTL)
	eventPub := events.NewWatermillPublisher(publisher)

	authService := service.NewAuthService(userStore, bannedStore, challengeStore, codec, mail, eventPub)

	// Setup Gin router
	router := http.SetupRouter(authService)

	addr := os.Getenv("APP_ADDRESS")
	if addr == "" {
		addr = ":3000"
	}

	// Start server
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// loadSignKey reads a hex-encoded P-256 private scalar from JWT_PRIVATE_KEY,
// or generates an ephemeral key when unset. An ephemeral key invalidates all
// sessions on restart.
func loadSignKey() (*ecdsa.PrivateKey, error) {
	raw := os.Getenv("JWT_PRIVATE_KEY")
	if raw == "" {
		log.Println("JWT_PRIVATE_KEY not set, generating an ephemeral signing key")
		return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	}

	scalar, err := hex.DecodeString(raw)
	if err != nil {
		return nil, err
	}

	key := new(ecdsa.PrivateKey)
	key.Curve = elliptic.P256()
	key.D = new(big.Int).SetBytes(scalar)
	key.PublicKey.X, key.PublicKey.Y = key.Curve.ScalarBaseMult(scalar)

	return key, nil
}
