// Package modeltest builds complete users payloads for tests.
package modeltest

import (
	"fmt"
	"strings"

	"userfeed/internal/model"
)

// UserJSON renders a user object with every required field set.
func UserJSON(id int, firstName, role string) string {
	return fmt.Sprintf(`{
  "id": %d, "firstName": %q, "lastName": "Smith", "maidenName": "", "age": 28,
  "gender": "female", "email": "ann@x.dev", "phone": "+1 555 0100", "username": "ann%d",
  "password": "secret", "birthDate": "1996-5-30", "image": "https://img.x.dev/%d.png",
  "bloodGroup": "O-", "height": 193.24, "weight": 63.16, "eyeColor": "Green",
  "hair": {"color": "Brown", "type": "Curly"},
  "ip": "42.48.100.32",
  "address": {"address": "626 Main Street", "city": "Phoenix", "state": "Mississippi",
    "stateCode": "MS", "postalCode": "29112",
    "coordinates": {"lat": -77.16213, "lng": -92.084824}, "country": "United States"},
  "macAddress": "47:fa:41:18:ec:eb", "university": "University of Wisconsin",
  "bank": {"cardExpire": "03/26", "cardNumber": "9289760655481815", "cardType": "Elo",
    "currency": "CNY", "iban": "YPUXISOBI7TTHPK2BR3HAIXL"},
  "company": {"department": "Engineering", "name": "Dooley, Kozey and Cronin",
    "title": "Sales Manager",
    "address": {"address": "263 Tenth Street", "city": "San Francisco", "state": "Wisconsin",
      "stateCode": "WI", "postalCode": "37657",
      "coordinates": {"lat": 71.814525, "lng": -161.150263}, "country": "United States"}},
  "ein": "977-175", "ssn": "900-590-289", "userAgent": "Mozilla/5.0",
  "crypto": {"coin": "Bitcoin", "wallet": "0xb9fc2fe63b2a6c003f1c324c3bfa53259162181a",
    "network": "Ethereum (ERC20)"},
  "role": %q
}`, id, firstName, id, id, role)
}

// EnvelopeJSON wraps user objects in the {"users": [...]} envelope.
func EnvelopeJSON(users ...string) string {
	return `{"users":[` + strings.Join(users, ",") + `]}`
}

// User is the decoded value of UserJSON with the same arguments.
func User(id int, firstName, role string) model.User {
	return model.User{
		ID:         id,
		FirstName:  firstName,
		LastName:   "Smith",
		MaidenName: "",
		Age:        28,
		Gender:     "female",
		Email:      "ann@x.dev",
		Phone:      "+1 555 0100",
		Username:   fmt.Sprintf("ann%d", id),
		Password:   "secret",
		BirthDate:  "1996-5-30",
		Image:      fmt.Sprintf("https://img.x.dev/%d.png", id),
		BloodGroup: "O-",
		Height:     193.24,
		Weight:     63.16,
		EyeColor:   "Green",
		Hair:       model.Hair{Color: "Brown", Type: "Curly"},
		IP:         "42.48.100.32",
		Address: model.Address{
			Address:     "626 Main Street",
			City:        "Phoenix",
			State:       "Mississippi",
			StateCode:   "MS",
			PostalCode:  "29112",
			Coordinates: model.Coordinates{Lat: -77.16213, Lng: -92.084824},
			Country:     "United States",
		},
		MacAddress: "47:fa:41:18:ec:eb",
		University: "University of Wisconsin",
		Bank: model.Bank{
			CardExpire: "03/26",
			CardNumber: "9289760655481815",
			CardType:   "Elo",
			Currency:   "CNY",
			IBAN:       "YPUXISOBI7TTHPK2BR3HAIXL",
		},
		Company: model.Company{
			Department: "Engineering",
			Name:       "Dooley, Kozey and Cronin",
			Title:      "Sales Manager",
			Address: model.Address{
				Address:     "263 Tenth Street",
				City:        "San Francisco",
				State:       "Wisconsin",
				StateCode:   "WI",
				PostalCode:  "37657",
				Coordinates: model.Coordinates{Lat: 71.814525, Lng: -161.150263},
				Country:     "United States",
			},
		},
		EIN:       "977-175",
		SSN:       "900-590-289",
		UserAgent: "Mozilla/5.0",
		Crypto: model.Crypto{
			Coin:    "Bitcoin",
			Wallet:  "0xb9fc2fe63b2a6c003f1c324c3bfa53259162181a",
			Network: "Ethereum (ERC20)",
		},
		Role: role,
	}
}
