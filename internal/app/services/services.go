package services

// Services defined in this package:
// - AuthService: registration, login and refresh token rotation
// - UserService: the user directory and the admin approval gate
// - DashboardService: admin overview counts
// - CapabilityService: the capability catalog and icon directory sync
// - SessionService: rehearsal sessions and their set-lists
// - CommitmentService: attendance pledges with their capabilities
// - SongService: the song library, votes and completion-backed suggestions
// - ChatService: scoped chat, reactions, read receipts and unread counts
// - FeedbackService: the feedback board
// - MediaService: session photos and recordings in object storage
// - NotificationService: invite emails and SMS reminders
// - BackupService: workbook export and import of the core tables
