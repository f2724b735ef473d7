// Command hashtoken prints the argon2id hash of an admin token, in the form
// ADMIN_TOKEN_HASH expects.
package main

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/nickkhg/rewind/internal/adminauth"
)

func main() {
	var token string
	if len(os.Args) > 1 {
		token = os.Args[1]
	} else {
		fmt.Fprint(os.Stderr, "Token: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Fatalf("read token: %v", err)
		}
		token = strings.TrimSpace(line)
	}
	if token == "" {
		log.Fatal("token must not be empty")
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		log.Fatalf("generate salt: %v", err)
	}

	fmt.Println(adminauth.EncodeHash(token, salt))
}
