package whatsapp

import (
	"fmt"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
)

// User-facing message copy. Every notice the pipeline sends is produced here
// so the wording lives in one place.

func registrationNeededMessage(phoneNumber string) string {
	return fmt.Sprintf("Welcome! 👋\n\nTo use this feature, please:\n1. Download the Budget Tracker app\n2. Register with this phone number: %s\n3. Then send transaction screenshots here!\n\n📱 This ensures your transactions are saved to YOUR account.", phoneNumber)
}

func processingStartedMessage() string {
	return "🔄 Processing your transaction screenshot..."
}

func successMessage(tx domain.ExtractedTransaction) string {
	return fmt.Sprintf("✅ Transaction added successfully!\n\n💰 Amount: Nu.%.2f\n📂 Category: %s\n📅 Date: %s\n🏪 Merchant: %s\n📝 Type: %s\n\n🎉 Your budget has been updated!",
		tx.Amount, tx.Category, tx.Date, tx.Merchant, tx.Type)
}

func duplicateMessage(tx domain.ExtractedTransaction) string {
	return fmt.Sprintf("⚠️ This transaction appears to be a duplicate!\n\n💰 Amount: Nu.%.2f\n📂 Category: %s\n📅 Date: %s\n🏪 Merchant: %s\n\n✅ Transaction already exists in your budget.",
		tx.Amount, tx.Category, tx.Date, tx.Merchant)
}

func extractionFailedMessage() string {
	return "❌ Could not extract transaction details from the image.\n\nPlease make sure your screenshot clearly shows:\n• 💰 Amount\n• 🏪 Merchant/Store name\n• 📅 Transaction date\n• 💳 Transaction type\n\nTry taking a clearer screenshot and send it again!"
}

func noImageFoundMessage() string {
	return "❌ Could not find image in the message. Please try sending the screenshot again."
}

func saveFailedMessage() string {
	return "❌ Error saving transaction to database.\n\nThe transaction data was extracted but couldn't be saved. Please try again or add it manually in the app."
}

func processingErrorMessage() string {
	return "❌ Sorry, there was an error processing your transaction.\n\nPlease try again or add the transaction manually in the app.\n\nIf this continues, contact support."
}

func helpMessage() string {
	return "🤖 Budget Tracker Bot\n\n📸 Send a transaction screenshot to automatically add it to your budget.\n\n✨ Commands:\n• 'help' - Show this message\n• 'status' - Check your registration\n• 'test' - Test message\n\nMake sure you're registered in the Budget Tracker app first!"
}

func statusRegisteredMessage(acct *domain.Account) string {
	return fmt.Sprintf("✅ You're registered!\nUser ID: %s...\nPhone: %s\n\nYou can now send transaction screenshots for automatic processing.",
		shortID(acct.UserID), acct.PhoneNumber)
}

func statusUnregisteredMessage(phoneNumber string) string {
	return fmt.Sprintf("❌ You're not registered yet.\nYour WhatsApp number: %s\nPlease register this exact number in the Budget Tracker app first.", phoneNumber)
}

func testReplyMessage(phoneNumber, body string) string {
	return fmt.Sprintf("✅ Test successful!\nReceived from: %s\nMessage: %q\nWebhook is working correctly!", phoneNumber, body)
}

func unrecognizedCommandMessage() string {
	return "I didn't understand that. Send 'help' for available commands or send a transaction screenshot. 📸"
}

func genericHelpMessage() string {
	return "Hi! Please send a screenshot of your transaction for automatic processing. 📸\n\nCommands:\n• Send image = Auto-add transaction\n• Type 'help' = Show this message"
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
