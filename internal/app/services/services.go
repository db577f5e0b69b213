package services

// Services defined in this package:
// - AuthService: Handles authentication, registration and token refresh
// - PostService: Handles post creation, updates and listing
// - MediaService: Handles media upload and post media classification
// - NotificationService: Handles announcement fan-out and notification queries
