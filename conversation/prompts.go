package conversation

// Prompt templates for title and summary generation. The %s placeholders
// take the (possibly speaker-formatted) transcript text; the speaker
// instruction placeholders collapse to empty strings for single-speaker
// conversations.

const titlePrompt = `Generate a concise, descriptive title (3-6 words) for this conversation transcript:

"%s"

Rules:
- Maximum 6 words
- Capture the main topic or theme
- Do NOT include speaker names or participants
- No quotes or special characters
- Examples: "Planning Weekend Trip", "Work Project Discussion", "Medical Appointment"

Title:`

const shortSummaryPrompt = `Generate a brief, informative summary (1-2 sentences, max 120 characters) for this conversation:

"%s"

Rules:
- Maximum 120 characters
- 1-2 complete sentences
%s- Capture key topics and outcomes
- Use present tense
- Be specific and informative

Summary:`

const shortSummarySpeakerInstruction = "- Include speaker names when relevant (e.g., \"John discusses X with Sarah\")\n"

const detailedSummaryPrompt = `Generate a comprehensive, detailed summary of this conversation transcript.

TRANSCRIPT:
"%s"

INSTRUCTIONS:
Your task is to create a high-quality, detailed summary of a conversation transcription that captures the full information and context of what was discussed. This is NOT a brief summary - provide comprehensive coverage.

Rules:
- We know it's a conversation, so no need to say "This conversation involved..."
- Provide complete coverage of all topics, points, and important details discussed
- Correct obvious transcription errors and remove filler words (um, uh, like, you know)
- Organize information logically by topic or chronologically as appropriate
- Use clear, well-structured paragraphs or bullet points
- Maintain the meaning and intent of what was said, but improve clarity and coherence
- Include relevant context, decisions made, action items mentioned, and conclusions reached
%s- Write in a natural, flowing narrative style
- Only include word-for-word quotes when quoting beats rephrasing
- Focus on substantive content - what was actually discussed and decided

Think of this as creating a high-quality information set that someone could use to understand everything important that happened in this conversation without reading the full transcript.

DETAILED SUMMARY:`

const detailedSummarySpeakerInstruction = `- Attribute key points and statements to specific speakers when relevant
- Capture the flow of conversation between participants
- Note any agreements, disagreements, or important exchanges
`
